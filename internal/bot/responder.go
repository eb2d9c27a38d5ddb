package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sheetbot/internal/domain"
	"sheetbot/internal/lookup"
	"sheetbot/internal/metrics"
	"sheetbot/internal/store"
)

// Responder runs the parse → lookup → format pipeline for one inbound
// message. It never fails: lookup, configuration, and transport errors are
// logged and turned into the generic failure reply, so every channel can
// always deliver something.
type Responder struct {
	lookups *lookup.Engine
	log     *store.MessageLog // nil disables message logging
	logger  *slog.Logger
}

type ResponderConfig struct {
	Lookups    *lookup.Engine
	MessageLog *store.MessageLog
	Logger     *slog.Logger
}

func NewResponder(cfg ResponderConfig) *Responder {
	return &Responder{
		lookups: cfg.Lookups,
		log:     cfg.MessageLog,
		logger:  cfg.Logger,
	}
}

// Respond handles one inbound message and returns the reply text.
func (r *Responder) Respond(ctx context.Context, channel, text string) string {
	metrics.Messages(channel).Inc()

	cmd := Parse(text)
	reply, outcome := r.execute(ctx, cmd)

	r.logger.Info("message handled",
		"channel", channel,
		"command", string(cmd.Kind),
		"outcome", outcome,
		"reply_len", len(reply),
	)

	if r.log != nil {
		err := r.log.Record(ctx, store.Entry{
			Channel:  channel,
			Body:     text,
			Command:  string(cmd.Kind),
			Outcome:  outcome,
			ReplyLen: len(reply),
		})
		if err != nil {
			r.logger.Warn("message log write failed", "err", err)
		}
	}

	return reply
}

func (r *Responder) execute(ctx context.Context, cmd domain.Command) (reply, outcome string) {
	switch cmd.Kind {
	case domain.CommandOrder:
		metrics.OrderLookups.Inc()
		start := time.Now()
		rec, ok, err := r.lookups.FindOrder(ctx, cmd.Arg)
		metrics.LookupLatency.Observe(time.Since(start).Seconds())
		if err != nil {
			return r.failure("order", err), "error"
		}
		if !ok {
			metrics.LookupsNotFound.Inc()
			return FormatOrderNotFound(cmd.Arg), "not_found"
		}
		return FormatOrder(rec), "found"

	case domain.CommandInventory:
		metrics.InventoryLookups.Inc()
		start := time.Now()
		rec, ok, err := r.lookups.FindInventory(ctx, cmd.Arg)
		metrics.LookupLatency.Observe(time.Since(start).Seconds())
		if err != nil {
			return r.failure("inventory", err), "error"
		}
		if !ok {
			metrics.LookupsNotFound.Inc()
			return FormatInventoryNotFound(cmd.Arg), "not_found"
		}
		return FormatInventory(rec), "found"

	case domain.CommandHelp:
		return HelpMessage(), "help"

	default:
		return UnknownMessage(), "unknown"
	}
}

// failure logs the real error server-side and returns the generic reply.
func (r *Responder) failure(kind string, err error) string {
	metrics.LookupErrors.Inc()

	var cfgErr *domain.ConfigError
	if errors.As(err, &cfgErr) {
		r.logger.Error("lookup misconfigured", "kind", kind, "err", err)
	} else {
		r.logger.Error("lookup failed", "kind", kind, "err", err)
	}
	return ErrorMessage()
}
