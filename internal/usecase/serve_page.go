package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/3-lines-studio/reactssr/internal/core"
	"github.com/3-lines-studio/reactssr/internal/head"
	"github.com/3-lines-studio/reactssr/internal/markup"
	"github.com/3-lines-studio/reactssr/internal/metrics"
	"github.com/3-lines-studio/reactssr/internal/node"
	"github.com/3-lines-studio/reactssr/internal/styles"
	"github.com/3-lines-studio/reactssr/internal/types"
)

const tracerName = "github.com/3-lines-studio/reactssr"

var (
	ErrNoRenderer  = errors.New("no renderer configured for component files")
	ErrNoComponent = errors.New("page has no component")
)

type Options struct {
	Renderer    Renderer
	Cache       Cache
	Manifest    *core.Manifest
	AssetPrefix string
	Strategy    styles.Strategy
	Logger      zerolog.Logger
}

type PageService struct {
	renderer Renderer
	cache    Cache
	manifest *core.Manifest
	prefix   string
	strategy styles.Strategy
	tracer   trace.Tracer
	log      zerolog.Logger
}

func NewPageService(opts Options) *PageService {
	return &PageService{
		renderer: opts.Renderer,
		cache:    opts.Cache,
		manifest: opts.Manifest,
		prefix:   core.NormalizePrefix(opts.AssetPrefix),
		strategy: opts.Strategy,
		tracer:   otel.Tracer(tracerName),
		log:      opts.Logger,
	}
}

type ServePageInput struct {
	Config  types.PageConfig
	Request *http.Request
}

type ServePageOutput struct {
	HTML   string
	Props  map[string]any
	Cached bool
}

// ServePage loads props, renders the page and assembles the document.
// Errors from the props loader are returned unchanged so redirects survive.
func (s *PageService) ServePage(ctx context.Context, input ServePageInput) (ServePageOutput, error) {
	cfg := input.Config
	ctx, span := s.tracer.Start(ctx, "reactssr.ServePage", trace.WithAttributes(
		attribute.String("reactssr.page", cfg.PageID),
	))
	defer span.End()

	start := time.Now()
	out, err := s.servePage(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var redirect types.RedirectError
		if !errors.As(err, &redirect) {
			metrics.RenderErrors.WithLabelValues(cfg.PageID, ErrorKind(err)).Inc()
		}
		return ServePageOutput{}, err
	}

	span.SetAttributes(attribute.Bool("reactssr.cached", out.Cached))
	metrics.RenderDuration.WithLabelValues(cfg.PageID).Observe(time.Since(start).Seconds())
	return out, nil
}

func (s *PageService) servePage(ctx context.Context, input ServePageInput) (ServePageOutput, error) {
	cfg := input.Config

	props := map[string]any{}
	if cfg.PropsLoader != nil {
		loaded, err := cfg.PropsLoader(input.Request)
		if err != nil {
			return ServePageOutput{}, err
		}
		if loaded != nil {
			props = loaded
		}
	}

	serialized, err := core.SerializeProps(cfg.PageID, props)
	if err != nil {
		return ServePageOutput{}, err
	}

	key := core.CacheKey(cfg.PageID, serialized)
	useCache := s.cache != nil && !cfg.NoCache
	if useCache {
		if doc, ok := s.cache.Get(key); ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return ServePageOutput{HTML: doc, Props: props, Cached: true}, nil
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	strategy := s.strategy
	if cfg.HasStrategy {
		strategy = cfg.Strategy
	}

	var doc string
	switch {
	case cfg.Component != nil:
		tree := node.Comp(func(ctx context.Context) *node.Node {
			return cfg.Component(ctx, props)
		})
		doc, err = s.RenderTree(ctx, TreeInput{
			Tree:     tree,
			PageID:   cfg.PageID,
			Props:    serialized,
			Strategy: strategy,
			Head:     cfg.Head,
		})
	case cfg.ComponentPath != "":
		doc, err = s.renderFile(ctx, cfg, serialized)
	default:
		err = fmt.Errorf("page %q: %w", cfg.PageID, ErrNoComponent)
	}
	if err != nil {
		return ServePageOutput{}, err
	}

	if useCache {
		s.cache.Set(key, doc)
	}
	return ServePageOutput{HTML: doc, Props: props}, nil
}

type TreeInput struct {
	Tree     *node.Node
	PageID   string
	Props    string
	Strategy styles.Strategy
	// Head is rendered before the elements recorded by the tree.
	Head []head.Element
}

// RenderTree renders a Go-native tree with its own head collector and style
// sheet and assembles the document.
func (s *PageService) RenderTree(ctx context.Context, in TreeInput) (string, error) {
	collector := head.NewCollector()
	ctx = head.WithCollector(ctx, collector)

	res, err := styles.CollectAndRender(ctx, in.Tree, node.RenderToString)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", in.PageID, err)
	}
	recorded := collector.Rewind()

	crit, err := styles.ExtractCritical(res.HTML, res.Sheet)
	if err != nil {
		return "", err
	}

	elements := make([]head.Element, 0, len(in.Head)+len(recorded))
	elements = append(elements, in.Head...)
	elements = append(elements, recorded...)

	s.log.Debug().
		Str("page", in.PageID).
		Int("head", len(elements)).
		Int("rules", len(crit.IDs)).
		Msg("rendered tree")

	return s.assemble(core.RenderResult{
		Body:        res.HTML,
		Head:        elements,
		CSS:         crit.CSS,
		CriticalIDs: crit.IDs,
	}, in.PageID, in.Props, in.Strategy)
}

func (s *PageService) renderFile(ctx context.Context, cfg types.PageConfig, props string) (string, error) {
	if s.renderer == nil {
		return "", ErrNoRenderer
	}

	res, err := s.renderer.Render(ctx, cfg.ComponentPath, props)
	if err != nil {
		return "", err
	}
	res.Head = append(append([]head.Element{}, cfg.Head...), res.Head...)

	s.log.Debug().Str("page", cfg.PageID).Str("component", cfg.ComponentPath).Msg("rendered component file")

	// CSS of component files ships in the bundle stylesheet.
	return s.assemble(res, cfg.PageID, props, styles.StrategyDefault)
}

func (s *PageService) assemble(res core.RenderResult, pageID, props string, strategy styles.Strategy) (string, error) {
	assets := core.GetAssets(s.manifest, s.prefix, pageID)
	return core.AssembleDocument(core.Document{
		Body:           res.Body,
		Head:           res.Head,
		PageID:         pageID,
		Props:          props,
		StylesheetHref: assets.CSS,
		ScriptHref:     assets.Script,
		Chunks:         assets.Chunks,
		Strategy:       strategy,
		CSS:            res.CSS,
		CriticalIDs:    res.CriticalIDs,
	})
}

// ErrorKind classifies a render failure for metrics and logs.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, markup.ErrMarkup):
		return "markup"
	case errors.Is(err, core.ErrPropsSerialization):
		return "props"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "render"
	}
}
