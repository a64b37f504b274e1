// Package adhive provides a high-level façade over the budget-governed
// request engine and the worker dispatcher, enabling rapid construction of
// AI ad-campaign hives. Most applications interact with this package by:
//  1. Creating a Hive via New() (optionally overriding the gateway, tracker,
//     data source or logger)
//  2. Running workflows (RunFullCampaign) or routing messages directly via
//     the Dispatcher
//
// All dependencies are injected at construction time; there are no package
// level singletons. Defaults are safe for local development: a hive built
// from an empty environment uses the OpenAI variant, which degrades to
// permanently failing responses until a credential is configured.
package adhive

import (
	"context"
	"time"

	"github.com/getadhive/adhive/budget"
	"github.com/getadhive/adhive/config"
	"github.com/getadhive/adhive/connector"
	"github.com/getadhive/adhive/core"
	"github.com/getadhive/adhive/dispatch"
	"github.com/getadhive/adhive/engine"
	"github.com/getadhive/adhive/logging"
	"github.com/getadhive/adhive/model"
	"github.com/getadhive/adhive/model/anthropic"
	"github.com/getadhive/adhive/model/openai"
	"github.com/getadhive/adhive/worker"
)

// Options configures a Hive.
type Options struct {
	// Model is the provider gateway. When nil it is built from Settings.
	Model model.Model

	// Settings supply provider and budget configuration; loaded from the
	// environment when nil.
	Settings *config.Settings

	// Tracker overrides the budget tracker built from Settings.
	Tracker *budget.Tracker

	// Data is the external data source; defaults to the simulated connector.
	Data connector.DataSource

	// StepTimeout bounds each workflow step's completion wait.
	StepTimeout time.Duration

	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Hive aggregates the request engine, dispatcher and the two stock workers.
type Hive struct {
	engine     *engine.Engine
	dispatcher *dispatch.Dispatcher
	analyst    *worker.Analysis
	campaigner *worker.Campaign
}

// New creates a Hive with optional overrides, registers the stock workers
// and starts them.
func New(optFns ...func(o *Options)) (*Hive, error) {
	opts := Options{
		StepTimeout: dispatch.DefaultStepTimeout,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Settings == nil {
		settings, err := config.Load()
		if err != nil {
			return nil, err
		}
		opts.Settings = &settings
	}

	if opts.Model == nil {
		opts.Model = buildGateway(*opts.Settings)
	}

	if opts.Tracker == nil {
		opts.Tracker = budget.NewTracker(func(o *budget.Options) {
			o.Config = opts.Settings.Budget
			o.Logger = opts.Logger
		})
	}

	if opts.Data == nil {
		opts.Data = connector.NewSimulated()
	}

	eng := engine.New(opts.Model, func(o *engine.Options) {
		o.Tracker = opts.Tracker
		o.Logger = opts.Logger
	})

	dispatcher := dispatch.New(func(o *dispatch.Options) {
		o.StepTimeout = opts.StepTimeout
		o.Logger = opts.Logger
	})

	analyst := worker.NewAnalysis("analyst_001", eng, opts.Data, opts.Logger)
	campaigner := worker.NewCampaign("campaigner_001", eng, opts.Data, opts.Logger)

	dispatcher.Register(analyst)
	dispatcher.Register(campaigner)

	ctx := context.Background()
	for _, w := range []core.Worker{analyst, campaigner} {
		if err := w.Start(ctx); err != nil {
			return nil, err
		}
	}

	return &Hive{engine: eng, dispatcher: dispatcher, analyst: analyst, campaigner: campaigner}, nil
}

// buildGateway constructs the configured provider variant. Missing
// credentials degrade the variant to permanently failing; they never abort
// construction.
func buildGateway(settings config.Settings) model.Model {
	switch settings.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = settings.AnthropicAPIKey
			if settings.Model != "" {
				o.Model = settings.Model
			}
			o.MaxTokens = int64(settings.MaxOutputTokens)
		})
	default:
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = settings.OpenAIAPIKey
			if settings.Model != "" {
				o.Model = settings.Model
			}
			o.MaxTokens = int64(settings.MaxOutputTokens)
		})
	}
}

// Engine exposes the request engine (for direct generation and stats).
func (h *Hive) Engine() *engine.Engine { return h.engine }

// Dispatcher exposes the dispatcher (for registering additional workers or
// routing messages directly).
func (h *Hive) Dispatcher() *dispatch.Dispatcher { return h.dispatcher }

// RunFullCampaign executes the analysis → campaign workflow for one shopper.
func (h *Hive) RunFullCampaign(ctx context.Context, userID string) dispatch.WorkflowResult {
	return h.dispatcher.Run(ctx, dispatch.WorkflowFullAdCampaign, core.AnalyzeUserTask{UserID: userID})
}

// Status returns the dispatcher's hive snapshot.
func (h *Hive) Status() dispatch.HiveStatus { return h.dispatcher.Status() }

// Shutdown stops the stock workers.
func (h *Hive) Shutdown(ctx context.Context) error {
	for _, w := range []core.Worker{h.analyst, h.campaigner} {
		if err := w.Stop(ctx); err != nil {
			return err
		}
	}
	return nil
}
