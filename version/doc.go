// Package version exposes build metadata for the pagekit binary.
//
// Values are injected with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/pagekit/version.Version=1.2.3 \
//	  -X github.com/ncobase/pagekit/version.Branch=main \
//	  -X github.com/ncobase/pagekit/version.Revision=abc1234 \
//	  -X 'github.com/ncobase/pagekit/version.BuiltAt=$(date)'"
//
// Values left at their defaults are filled from the module and VCS
// information the go tool embeds in the binary.
package version
