package core

import (
	"context"
	"fmt"

	"github.com/keepmind9/anybot/internal/adapters/dingtalk"
	"github.com/keepmind9/anybot/internal/adapters/discord"
	"github.com/keepmind9/anybot/internal/adapters/feishu"
	"github.com/keepmind9/anybot/internal/adapters/kook"
	"github.com/keepmind9/anybot/internal/adapters/onebot"
	"github.com/keepmind9/anybot/internal/adapters/qq"
	"github.com/keepmind9/anybot/internal/adapters/qqguild"
	"github.com/keepmind9/anybot/internal/adapters/telegram"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/keepmind9/anybot/internal/fetch"
	"github.com/keepmind9/anybot/internal/loader"
	"github.com/keepmind9/anybot/internal/logger"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
)

// Runtime holds the loaded registries and the dispatcher. It is read-only
// once New returns.
type Runtime struct {
	registrar  *loader.Registrar
	dispatcher *message.Dispatcher
	fetcher    *fetch.Client
	modules    []loader.Module
}

func (r *Runtime) Platforms() *platform.Registry   { return r.registrar.Platforms }
func (r *Runtime) Events() *event.Resolver         { return r.registrar.Events }
func (r *Runtime) Handlers() *message.Registry     { return r.registrar.Handlers }
func (r *Runtime) Dispatcher() *message.Dispatcher { return r.dispatcher }
func (r *Runtime) Fetcher() *fetch.Client          { return r.fetcher }
func (r *Runtime) Modules() []loader.Module        { return r.modules }

// New builds the runtime from cfg: it creates the media fetcher, registers the
// enabled adapter modules and freezes the event resolver.
func New(cfg *Config) (*Runtime, error) {
	c := dig.New()

	if err := c.Provide(func() *Config { return cfg }); err != nil {
		return nil, err
	}
	if err := c.Provide(newFetchClient); err != nil {
		return nil, err
	}
	if err := c.Provide(func(f *fetch.Client) message.Fetcher { return f }); err != nil {
		return nil, err
	}
	if err := c.Provide(loader.NewRegistrar); err != nil {
		return nil, err
	}
	if err := c.Provide(Modules); err != nil {
		return nil, err
	}
	if err := c.Provide(newDispatcher); err != nil {
		return nil, err
	}

	var rt *Runtime
	err := c.Invoke(func(
		r *loader.Registrar,
		modules []loader.Module,
		d *message.Dispatcher,
		f *fetch.Client,
	) error {
		if err := loader.Load(r, modules...); err != nil {
			return err
		}
		rt = &Runtime{registrar: r, dispatcher: d, fetcher: f, modules: modules}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build runtime: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"modules": len(rt.modules),
	}).Info("runtime-ready")
	return rt, nil
}

func newFetchClient(cfg *Config) (*fetch.Client, error) {
	return fetch.New(cfg.FetchConfig())
}

func newDispatcher(r *loader.Registrar) *message.Dispatcher {
	return message.NewDispatcher(r.Platforms, r.Handlers)
}

// Modules returns the adapter modules enabled by cfg in platform order
func Modules(cfg *Config) []loader.Module {
	var out []loader.Module
	for _, p := range cfg.EnabledPlatforms() {
		if m := moduleFor(p, cfg.VoicePlaceholder(p)); m != nil {
			out = append(out, m)
		}
	}
	return out
}

func moduleFor(p platform.Platform, voice string) loader.Module {
	switch p {
	case platform.OneBotV11:
		return onebot.Module{}
	case platform.QQ:
		return qq.Module{VoicePlaceholder: voice}
	case platform.QQGuild:
		return qqguild.Module{VoicePlaceholder: voice}
	case platform.KOOK:
		return kook.Module{}
	case platform.Discord:
		return discord.Module{}
	case platform.Telegram:
		return telegram.Module{}
	case platform.Feishu:
		return feishu.Module{}
	case platform.DingTalk:
		return dingtalk.Module{VoicePlaceholder: voice}
	default:
		return nil
	}
}

// Solve resolves native into the most specific registered variant
// implementing T
func Solve[T event.Event](rt *Runtime, bot, native any) (T, bool) {
	return event.Solve[T](rt.Events(), bot, native)
}

// Send builds m for the platform of bot and sends it in reply to ev
func (r *Runtime) Send(ctx context.Context, bot, ev any, m *message.Msg, opts message.SendOptions) ([]any, error) {
	return r.dispatcher.Send(ctx, bot, ev, m, opts)
}
