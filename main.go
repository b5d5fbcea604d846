package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/nexus-tui/app"
	"github.com/deevus/nexus-tui/config"
	"github.com/deevus/nexus-tui/internal"
	"github.com/deevus/nexus-tui/internal/feature"
	"github.com/deevus/nexus-tui/internal/nexus"
	"github.com/deevus/nexus-tui/internal/printer"
)

func main() {
	serverFlag := flag.String("server", "", "server profile name from config")
	configFlag := flag.String("config", config.DefaultPath(), "path to config file")
	flag.Parse()

	cfg, err := config.LoadFrom(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	serverName := *serverFlag
	if serverName == "" {
		names := cfg.ServerNames()
		if len(names) == 1 {
			serverName = names[0]
		} else {
			fmt.Fprintf(os.Stderr, "Multiple servers configured. Use --server flag.\nAvailable: %v\n", names)
			os.Exit(1)
		}
	}

	serverCfg, ok := cfg.Servers[serverName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: server %q not found in config\n", serverName)
		os.Exit(1)
	}

	// The terminal belongs to the UI from here on.
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating log directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file %s: %v\n", cfg.LogFile, err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	client, err := nexus.NewClient(nexus.ClientConfig{
		BaseURL:            serverCfg.URL,
		Username:           serverCfg.Username,
		Password:           serverCfg.Password,
		InsecureSkipVerify: serverCfg.InsecureSkipVerify,
		Timeout:            serverCfg.Timeout.Duration,
		DownloadDir:        serverCfg.DownloadDir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating client: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := app.New(app.Params{
		Services:    internal.NewClientServices(client),
		ServerName:  serverName,
		Permissions: feature.NewPermissions(serverCfg.Permissions),
		Printer:     printer.NewCommandOpener(serverCfg.PrintCommand),
		URLOf:       client.URLOf,
		Context:     ctx,
		Debug:       serverCfg.Debug,
	})
	defer root.Close()

	vxApp, err := vxfw.NewApp(vaxis.Options{})
	if err != nil {
		log.Fatal(err)
	}
	root.SetPostEvent(vxApp.PostEvent)

	if err := vxApp.Run(root); err != nil {
		log.Fatal(err)
	}
}
