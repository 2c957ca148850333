package main

import (
	"log"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/cmd"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/configs"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
)

func main() {
	env := configs.LoadEnv()

	appLog, err := logger.New(env.LogMode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLog.Sync()

	if err := cmd.RunCli(env, appLog); err != nil {
		appLog.Fatal("command failed", "error", err)
	}
}
