package agents

import (
	"context"
	"net/http"

	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/llm"
	"github.com/soyeahso/tubecrew/internal/logging"
	"github.com/soyeahso/tubecrew/internal/search"
	"github.com/soyeahso/tubecrew/internal/stock"
	"github.com/soyeahso/tubecrew/internal/upstream"
	"github.com/soyeahso/tubecrew/internal/youtube"
)

// Factory builds a fresh Toolkit from configuration for every request.
// Clients that cannot be built are left nil and their configuration error
// is recorded, so only agents that need them fail.
type Factory struct {
	cfg    config.Config
	client *http.Client
	log    *logging.Logger
}

// NewFactory creates a factory. The HTTP client is shared by the search and
// stock clients.
func NewFactory(cfg config.Config, log *logging.Logger) *Factory {
	return &Factory{cfg: cfg, client: upstream.NewHTTPClient(), log: log}
}

// Config returns the configuration the factory builds from.
func (f *Factory) Config() config.Config { return f.cfg }

// Toolkit builds every client the configuration allows.
func (f *Factory) Toolkit(ctx context.Context) Toolkit {
	tk := Toolkit{
		AssetsDir:   f.cfg.Assets.Dir,
		Log:         f.log,
		Unavailable: map[Dependency]error{},
	}

	if c, err := llm.NewOpenAIClient(f.cfg.Completion, f.log); err != nil {
		tk.Unavailable[DepLLM] = err
	} else {
		tk.LLM = c
	}

	if p, err := search.New(f.cfg.Search, f.client); err != nil {
		tk.Unavailable[DepSearch] = err
	} else {
		tk.Search = p
	}

	if p, err := stock.New(f.cfg.Stock, f.client); err != nil {
		tk.Unavailable[DepStock] = err
	} else {
		tk.Stock = p
	}

	if c, err := youtube.New(ctx, f.cfg.YouTube, f.log); err != nil {
		tk.Unavailable[DepYouTube] = err
	} else {
		tk.YouTube = c
	}

	return tk
}
