// Package all registers every store and cache driver.
//
//	import _ "github.com/ncobase/pagekit/data/all"
//
// Import single drivers to keep binaries small:
//
//	import _ "github.com/ncobase/pagekit/data/sqlite"
package all

import (
	// Store drivers
	_ "github.com/ncobase/pagekit/data/mongodb"
	_ "github.com/ncobase/pagekit/data/mysql"
	_ "github.com/ncobase/pagekit/data/pebble"
	_ "github.com/ncobase/pagekit/data/postgres"
	_ "github.com/ncobase/pagekit/data/sqlite"

	// Cache drivers
	_ "github.com/ncobase/pagekit/data/redis"
)
