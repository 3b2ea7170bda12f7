package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"advisor/config"
	"advisor/database"
	"advisor/router"

	"advisor/pkg/ai"
	chatCtrlImp "advisor/pkg/chat/controllerImp"
	courseCtrlImp "advisor/pkg/course/controllerImp"
	courseRepoImp "advisor/pkg/course/repositoryImp"
	courseSvcImp "advisor/pkg/course/serviceImp"
	healthCtrlImp "advisor/pkg/health/controllerImp"
	kbEmbedder "advisor/pkg/kb/embedder"
	kbSvcImp "advisor/pkg/kb/serviceImp"
)

func main() {
	// 1) Config
	cfg := config.Load()

	// 2) DB (sqlite) + automigrate
	db := database.OpenSQLite(cfg.DBPath)

	// 3) Retrieval engine
	emb := kbEmbedder.New(cfg.EmbEndpoint, cfg.EmbAPIKey, cfg.EmbModel)
	engine := kbSvcImp.New(emb, cfg.KBFile, cfg.IndexPath, cfg.MetaPath)

	// 4) Generator (mock fallback when no key is configured)
	var gen ai.Client
	if cfg.GenAPIKey != "" {
		gen = ai.NewGroq(cfg.GenEndpoint, cfg.GenAPIKey, cfg.GenModel)
	} else {
		log.Printf("[ai] GROQ_API_KEY not set, using mock generator")
		gen = ai.NewMock()
	}

	// 5) Course administration; mutations regenerate the knowledge
	// base and nudge the engine
	courseRepo := courseRepoImp.New(db)
	courseSvc := courseSvcImp.New(courseRepo, cfg.KBFile, func() {
		go func() {
			if err := engine.Rebuild(context.Background(), false); err != nil {
				log.Printf("[kb] rebuild after course change: %v", err)
			}
		}()
	})
	courseCtrl := courseCtrlImp.New(courseSvc)

	// 6) Controllers
	chatCtrl := chatCtrlImp.New(engine, gen, cfg.TopK, cfg.MaxHistoryTurns)
	hCtrl := healthCtrlImp.New(db, engine)

	// 7) Echo
	e := echo.New()
	e.Use(echoMiddleware.Recover())

	// Initial build; a missing knowledge base degrades to a sentinel
	// document rather than aborting startup
	if err := engine.Rebuild(context.Background(), false); err != nil {
		log.Printf("[kb] initial index build: %v", err)
	}

	r := router.New(e, chatCtrl, courseCtrl, hCtrl)

	// 8) Start
	log.Printf("listening on :%s", cfg.Port)
	if err := r.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
