package container

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"go.uber.org/zap"

	"admitd/internal/analytics"
	"admitd/internal/handlers"
	"admitd/internal/health"
	"admitd/internal/metrics"
	"admitd/internal/middleware"
	"admitd/internal/ratelimit"
)

// Options configures the admission server.
type Options struct {
	Port          int    `default:"8888"  help:"Port to listen on"                                       short:"p"`
	Strategy      string `default:"keyed" help:"Ledger strategy: global, snapshot, keyed or ring"        short:"s"`
	Limit         int    `default:"100"   help:"Requests admitted per client key per window"             short:"l"`
	WindowSeconds int    `default:"60"    help:"Sliding window duration in seconds"                      short:"w"`
}

// LoggerPackage provides the process logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*zap.Logger, error) {
		return zap.NewProduction()
	})
}

// RateLimitPackage provides the sliding-window limiter built from options.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.SlidingWindowLimiter, error) {
		options := do.MustInvoke[*Options](i)

		strategy, err := ratelimit.ParseStrategy(options.Strategy)
		if err != nil {
			return nil, err
		}

		policy := ratelimit.Policy{
			Limit:  options.Limit,
			Window: time.Duration(options.WindowSeconds) * time.Second,
		}

		return ratelimit.NewSlidingWindowLimiter(strategy, policy, ratelimit.SystemClock{})
	})
}

// MetricsPackage provides the decision recorder.
func MetricsPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*metrics.Recorder, error) {
		options := do.MustInvoke[*Options](i)

		return metrics.NewRecorder(options.Strategy), nil
	})
}

// AnalyticsPackage provides the in-process event bus, denial publisher,
// tally and consumer.
func AnalyticsPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*gochannel.GoChannel, error) {
		return gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}), nil
	})

	do.Provide(injector, func(i *do.Injector) (*analytics.Publisher, error) {
		bus := do.MustInvoke[*gochannel.GoChannel](i)

		return analytics.NewPublisher(bus), nil
	})

	do.Provide(injector, func(_ *do.Injector) (*analytics.Tally, error) {
		return analytics.NewTally(), nil
	})

	do.Provide(injector, func(i *do.Injector) (*analytics.Consumer, error) {
		bus := do.MustInvoke[*gochannel.GoChannel](i)
		tally := do.MustInvoke[*analytics.Tally](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return analytics.NewConsumer(bus, tally, logger), nil
	})
}

// HTTPPackage provides the router and API with middleware and routes
// registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		limiter := do.MustInvoke[*ratelimit.SlidingWindowLimiter](i)
		recorder := do.MustInvoke[*metrics.Recorder](i)
		publisher := do.MustInvoke[*analytics.Publisher](i)
		tally := do.MustInvoke[*analytics.Tally](i)
		logger := do.MustInvoke[*zap.Logger](i)

		api := humachi.New(router, huma.DefaultConfig("Admission Control", "1.0.0"))

		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.RateLimiter(api, limiter, recorder, publisher, logger),
		)

		handlers.RegisterRoutes(api, handlers.NewAdmissionHandler(limiter, tally, logger))
		health.RegisterRoutes(api, health.NewHandler(limiter))

		router.Handle("/metrics", recorder.Handler())

		return api, nil
	})
}
