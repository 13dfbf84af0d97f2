package main

import (
	"os"

	"github.com/mongodb/grip"
	"github.com/urfave/cli"
)

func main() {
	grip.EmergencyFatal(buildApp().Run(os.Args))
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = "feedbackctl"
	app.Usage = "manage the feedback database and export archives"
	app.Commands = []cli.Command{
		initDB(),
		dropDB(),
		seed(),
		archive(),
	}
	return app
}
