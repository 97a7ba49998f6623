package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/examdex/internal/logger"
	"github.com/cognicore/examdex/pkg/examdex"
	"github.com/cognicore/examdex/pkg/examdex/config"
	"github.com/cognicore/examdex/pkg/examdex/query"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// filterFlags collects repeated -filter dim=v1,v2 arguments
type filterFlags []query.Filter

func (f *filterFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, flt := range *f {
		parts = append(parts, flt.Dimension+"="+strings.Join(flt.Values, ","))
	}
	return strings.Join(parts, " ")
}

func (f *filterFlags) Set(v string) error {
	dim, values, ok := strings.Cut(v, "=")
	dim = strings.TrimSpace(dim)
	if !ok || dim == "" {
		return fmt.Errorf("filter %q: want dimension=value[,value...]", v)
	}

	flt := query.Filter{Dimension: dim}
	for _, val := range strings.Split(values, ",") {
		if val = strings.TrimSpace(val); val != "" {
			flt.Values = append(flt.Values, val)
		}
	}
	*f = append(*f, flt)
	return nil
}

// request is one query invocation
type request struct {
	kind       record.Kind
	id         string
	search     string
	filters    []query.Filter
	summaries  string
	chapter    string
	subchapter bool
	stats      bool
	nav        string
	navIndex   int
}

func main() {
	env := config.LoadEnv()

	var (
		artifactPath = flag.String("artifact", env.OutPath, "Artifact path (env EXAMDEX_OUT)")
		kind         = flag.String("kind", string(record.KindQuiz), "Record kind: quiz, case-analysis or essay-guidance")
		id           = flag.String("id", "", "Look up one record by ID")
		search       = flag.String("search", "", "Free-text search")
		summaries    = flag.String("summaries", "", "List the values of a dimension with counts")
		chapter      = flag.String("chapter", "", "Records of a chapter")
		subchapter   = flag.Bool("sub", false, "With -chapter, include sub-chapters")
		stats        = flag.Bool("stats", false, "Print section statistics")
		nav          = flag.String("nav", "", "Navigate within dimension=value; use with -index")
		navIndex     = flag.Int("index", 0, "With -nav, position of the current record")
		logMode      = flag.String("log", "quiet", "Log mode: dev, prod or quiet")
		filters      filterFlags
	)
	flag.Var(&filters, "filter", "Filter dimension=value[,value...]; repeat to intersect")
	flag.Parse()

	zl, err := logger.New(*logMode)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync(zl)

	ctx := context.Background()
	store, err := examdex.OpenStore(ctx, *artifactPath)
	if err != nil {
		log.Fatal(err)
	}
	x := examdex.New(examdex.Options{Store: store, Logger: zl})
	defer x.Close()

	req := request{
		kind:       record.Kind(*kind),
		id:         *id,
		search:     *search,
		filters:    filters,
		summaries:  *summaries,
		chapter:    *chapter,
		subchapter: *subchapter,
		stats:      *stats,
		nav:        *nav,
		navIndex:   *navIndex,
	}
	if err := run(ctx, x.Query(), req, os.Stdout); err != nil {
		zl.Error("query failed", zap.Error(err))
		log.Fatal(err)
	}
}

func run(ctx context.Context, svc *query.Service, req request, w io.Writer) error {
	if !req.kind.Valid() {
		return fmt.Errorf("unknown kind %q", req.kind)
	}

	if req.kind == record.KindQuiz {
		e, err := svc.Quizzes(ctx)
		if err != nil {
			return err
		}
		return answer(e, req, w)
	}

	e, err := svc.Narratives(ctx, req.kind)
	if err != nil {
		return err
	}
	return answer(e, req, w)
}

func answer[R record.Record](e *query.Engine[R], req request, w io.Writer) error {
	var out any
	switch {
	case req.id != "":
		r, err := e.ByID(req.id)
		if err != nil {
			return err
		}
		out = r
	case req.search != "":
		out = e.Search(req.search)
	case len(req.filters) > 0:
		out = e.ByFilters(req.filters...)
	case req.summaries != "":
		out = e.Summaries(req.summaries)
	case req.chapter != "":
		out = e.ByChapter(req.chapter, req.subchapter)
	case req.nav != "":
		dim, value, ok := strings.Cut(req.nav, "=")
		if !ok || strings.TrimSpace(dim) == "" {
			return fmt.Errorf("nav %q: want dimension=value", req.nav)
		}
		out = e.Navigate(strings.TrimSpace(dim), strings.TrimSpace(value), req.navIndex)
	case req.stats:
		out = e.Statistics()
	default:
		out = e.Metadata()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
