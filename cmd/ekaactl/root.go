package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "ekaactl",
	Short:         "EKAA Hub operator tools",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().String("mongo_uri", "mongodb://localhost:27017", "MongoDB connection URI")
	rootCmd.PersistentFlags().String("mongo_database", "ekaa", "MongoDB database name")

	_ = viper.BindPFlag("mongo_uri", rootCmd.PersistentFlags().Lookup("mongo_uri"))
	_ = viper.BindPFlag("mongo_database", rootCmd.PersistentFlags().Lookup("mongo_database"))

	rootCmd.AddCommand(createAdminCmd, checkRoutingCmd)
}

// initConfig reads the same EKAAHUB_* variables and config file keys the
// server does.
func initConfig() {
	viper.SetEnvPrefix("EKAAHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}
	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine; flags and env still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}
}

func connect(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(viper.GetString("mongo_uri")))
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return client, client.Database(viper.GetString("mongo_database")), nil
}
