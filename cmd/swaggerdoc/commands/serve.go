package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
	"git.home.luguber.info/inful/swaggerdoc/internal/server"
)

// ServeCmd builds once, then serves the output directory.
type ServeCmd struct {
	Addr     string        `help:"Listen address" default:"127.0.0.1:8000"`
	Watch    bool          `short:"w" help:"Rebuild when sources change"`
	Debounce time.Duration `help:"Quiet period before a rebuild starts" default:"300ms"`
}

func (s *ServeCmd) Run(ctx context.Context, root *CLI) error {
	cfg, logger, err := root.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sb := newSiteBuild(cfg, logger)
	srv := server.New(cfg.OutputPath(), logger, sb.registry)

	rebuild := func(ctx context.Context) error {
		report, err := sb.run(ctx)
		st := server.BuildStatus{Finished: time.Now()}
		if report != nil {
			st.Outcome = string(report.Outcome)
			st.Summary = report.Summary()
		}
		if err != nil {
			st.Error = err.Error()
		}
		srv.SetStatus(st)
		return err
	}
	if err := rebuild(ctx); err != nil {
		logger.Error("Initial build failed", logfields.Error(err))
	}

	var watchDone chan error
	if s.Watch {
		w := &server.Watcher{
			Root:     cfg.SourcePath(),
			Ignore:   []string{cfg.OutputPath()},
			Debounce: s.Debounce,
			Rebuild:  rebuild,
			Logger:   logger,
		}
		watchDone = make(chan error, 1)
		go func() { watchDone <- w.Run(ctx) }()
	}

	err = srv.ListenAndServe(ctx, s.Addr)
	cancel()
	if watchDone != nil {
		if werr := <-watchDone; werr != nil && err == nil {
			err = werr
		}
	}
	return err
}
