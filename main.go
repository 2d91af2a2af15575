package main

import (
	"path"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/ytvault/ytvault/api"
	"github.com/ytvault/ytvault/auth"
	"github.com/ytvault/ytvault/db"
	"github.com/ytvault/ytvault/fetcher"
	"github.com/ytvault/ytvault/internal/config"
	"github.com/ytvault/ytvault/library"
	"github.com/ytvault/ytvault/manager"
	"github.com/ytvault/ytvault/storage"
)

var logger = zap.NewExample().Sugar()

var CLI struct {
	Serve struct {
		Bind      string `optional name:"bind" help:"Address to listen on." default:":8080"`
		DataPath  string `optional name:"data_path" help:"Path to store database files." type:"existingdir" default:"."`
		VideoPath string `optional name:"video_path" help:"Path to store downloaded media." type:"existingdir" default:"."`
		Debug     bool   `optional name:"debug" help:"Debug mode."`
	} `cmd help:"Start video download server."`
}

func main() {
	ctx := kong.Parse(&CLI)
	switch ctx.Command() {
	case "serve":
		serve()
	default:
		panic(ctx.Command())
	}
}

func serve() {
	cfg, err := config.ReadServerConfig()
	if err != nil {
		logger.Fatal(err)
	}
	if cfg.SecretKey == "" {
		logger.Fatal("secret_key is not set")
	}

	vdb := db.OpenDB(path.Join(CLI.Serve.DataPath, "data.sqlite"))
	if err := vdb.MigrateUp(library.InitialMigration); err != nil {
		logger.Fatal(err)
	}

	lib := library.NewLibrary(vdb)
	media := storage.Local(CLI.Serve.VideoPath)
	mgr := manager.NewManager(lib, fetcher.NewYouTubeFetcher(), media, cfg.VideosPerPage)
	mgr.RefreshDiskUsage()

	sessions := auth.NewStore(cfg.SecretKey, time.Duration(cfg.SessionTTLHours)*time.Hour)
	flow, err := auth.LoadFlow(auth.FlowConfig{
		SecretsFile: cfg.ClientSecretsFile,
		ClientID:    cfg.GoogleClientID,
		RedirectURL: cfg.RedirectURL,
	})
	if err != nil {
		logger.Fatal(err)
	}

	server := api.NewServer(api.Configure().
		Addr(CLI.Serve.Bind).
		Debug(CLI.Serve.Debug).
		VideoManager(mgr).
		Sessions(sessions).
		AuthHandler(auth.NewHandler(sessions, flow)).
		ProtectDownloads(cfg.ProtectDownloads))

	if err := server.StartWithShutdown(); err != nil {
		logger.Fatal(err)
	}
}
