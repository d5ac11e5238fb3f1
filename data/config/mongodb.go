package config

import (
	"github.com/spf13/viper"
)

// MongoDB mongodb config struct
type MongoDB struct {
	URI        string `json:"uri" yaml:"uri"`
	Database   string `json:"database" yaml:"database"`
	Collection string `json:"collection" yaml:"collection"`
	IDField    string `json:"id_field" yaml:"id_field"`
	Logging    bool   `json:"logging" yaml:"logging"`
}

// getMongoDBConfigs reads MongoDB configurations
func getMongoDBConfigs(v *viper.Viper) *MongoDB {
	v.SetDefault("data.mongodb.id_field", "_id")
	return &MongoDB{
		URI:        v.GetString("data.mongodb.uri"),
		Database:   v.GetString("data.mongodb.database"),
		Collection: v.GetString("data.mongodb.collection"),
		IDField:    v.GetString("data.mongodb.id_field"),
		Logging:    v.GetBool("data.mongodb.logging"),
	}
}
