package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/nflstats/internal/config"
	"github.com/nao1215/nflstats/internal/export"
	"github.com/nao1215/nflstats/internal/fetch"
	"github.com/nao1215/nflstats/internal/log"
	"github.com/nao1215/nflstats/internal/model"
	"github.com/nao1215/nflstats/internal/season"
)

func tabs(hrefs ...string) string {
	var b strings.Builder
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<li class="d3-o-tabs__list-item"><a href="%s">tab</a></li>`, href)
	}
	return "<ul>" + b.String() + "</ul>"
}

func teamTable(rows ...[3]string) string {
	var b strings.Builder
	b.WriteString(`<table class="d3-o-team-stats--detailed"><tr><th>Team</th><th>Att</th><th>Yds</th></tr>`)
	for _, r := range rows {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>", r[0], r[1], r[2])
	}
	b.WriteString(`</table>`)
	return b.String()
}

const nextAnchor = `<a class="nfl-o-table-pagination__next" href="%s">Next</a>`

// newTeamSite serves a team statistics site with one unit and two
// categories of two pages each. Category links on the group
// page point at 2023; the requested season is rendered into them.
func newTeamSite(t *testing.T, season int) *httptest.Server {
	t.Helper()

	passing := fmt.Sprintf("/stats/team-stats/offense/passing/%d/reg/all", season)
	rushing := fmt.Sprintf("/stats/team-stats/offense/rushing/%d/reg/all", season)

	group := "/stats/team-stats/offense/passing/2023/reg/all"
	pages := map[string]string{
		"/stats/team-stats/": `<ul class="d3-o-tabbed-controls-selector__list">` +
			`<li><a href="` + group + `">Offense</a></li></ul>`,
		group: tabs(
			"/stats/team-stats/offense/passing/2023/reg/all",
			"/stats/team-stats/offense/rushing/2023/reg/all",
		),
	}
	// The group page is also the first passing page when season is 2023.
	pages[passing] += teamTable([3]string{"BUFBUF", "500", "4000"}, [3]string{"KCKC", "550", "4500"}) +
		fmt.Sprintf(nextAnchor, passing+"?aftercursor=2")
	pages[passing+"?aftercursor=2"] = teamTable([3]string{"NYGNYG", "480", "3500"})
	pages[rushing] = teamTable([3]string{"BALBAL", "450", "2800"}) +
		fmt.Sprintf(nextAnchor, rushing+"?aftercursor=2")
	pages[rushing+"?aftercursor=2"] = teamTable([3]string{"SFSF", "470", "2700"}, [3]string{"PHIPHI", "500", "2650"})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		body, ok := pages[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestComponents(t *testing.T, baseURL string) Components {
	t.Helper()

	writer, err := export.NewWriter(export.WithLogger(log.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	return Components{
		Fetcher: fetch.NewClient(fetch.WithTimeout(5*time.Second), fetch.WithLogger(log.Discard())),
		BaseURL: baseURL,
		Markups: map[model.Level]config.LevelMarkup{
			model.LevelPlayer: config.DefaultPlayerMarkup(),
			model.LevelTeam:   config.DefaultTeamMarkup(),
		},
		MaxPages: 10,
		Writer:   writer,
		Logger:   log.Discard(),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestScrapePipeline(t *testing.T) {
	t.Parallel()

	t.Run("current season team scrape", func(t *testing.T) {
		t.Parallel()

		server := newTeamSite(t, 2023)
		out := t.TempDir()

		p, err := newTestComponents(t, server.URL).Build(model.LevelTeam)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		job := model.NewJob(model.RunConfig{
			Season: 2023, Level: model.LevelTeam, CurrentSeason: 2023, CurrentWeek: 4, OutputDir: out,
		})
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if len(job.Failures) != 0 {
			t.Errorf("unexpected failures: %+v", job.Failures)
		}
		for _, category := range []string{"passing", "rushing"} {
			if got := len(job.Links.Pages("offense", category)); got != 2 {
				t.Errorf("%s pages = %d, want 2", category, got)
			}
		}

		dir := filepath.Join(out, "2023", "team", "week4", "offense")
		wantPassing := "Team,Att,Yds\nBUF,500,4000\nKC,550,4500\nNYG,480,3500\n"
		if diff := cmp.Diff(wantPassing, readFile(t, filepath.Join(dir, "passing.csv"))); diff != "" {
			t.Errorf("passing.csv mismatch (-want +got):\n%s", diff)
		}
		wantRushing := "Team,Att,Yds\nBAL,450,2800\nSF,470,2700\nPHI,500,2650\n"
		if diff := cmp.Diff(wantRushing, readFile(t, filepath.Join(dir, "rushing.csv"))); diff != "" {
			t.Errorf("rushing.csv mismatch (-want +got):\n%s", diff)
		}

		if len(job.Exports) != 2 || job.RowCount() != 6 {
			t.Errorf("exports = %d, rows = %d, want 2 and 6", len(job.Exports), job.RowCount())
		}
		if diff := cmp.Diff([]string{StepDiscover, StepOrganize, StepPaginate, StepExport}, job.PerformedSteps); diff != "" {
			t.Errorf("PerformedSteps mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("historic season renders the season into category urls", func(t *testing.T) {
		t.Parallel()

		server := newTeamSite(t, 2019)
		out := t.TempDir()

		p, err := newTestComponents(t, server.URL).Build(model.LevelTeam)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		job := model.NewJob(model.RunConfig{
			Season: 2019, Level: model.LevelTeam, CurrentSeason: 2023, CurrentWeek: 4, OutputDir: out,
		})
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(out, "2019", "team", "offense", "passing.csv")); err != nil {
			t.Errorf("expected historic export without week directory: %v", err)
		}
	})

	t.Run("landing failure aborts the level", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(server.Close)

		p, err := newTestComponents(t, server.URL).Build(model.LevelPlayer)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		job := model.NewJob(model.RunConfig{Season: 2023, Level: model.LevelPlayer, CurrentSeason: 2023, OutputDir: t.TempDir()})
		err = p.Execute(context.Background(), job)
		if !fetch.IsStatus(err, http.StatusNotFound) {
			t.Fatalf("expected 404, got %v", err)
		}
		if !strings.Contains(err.Error(), "player.landingPath") {
			t.Errorf("expected the error to name the landing path setting, got %v", err)
		}
		if len(job.Exports) != 0 {
			t.Errorf("unexpected exports: %+v", job.Exports)
		}
	})

	t.Run("unchanged content is flagged", func(t *testing.T) {
		t.Parallel()

		server := newTeamSite(t, 2023)
		out := t.TempDir()
		hashes := &memoryHashes{seen: map[string]string{}}

		c := newTestComponents(t, server.URL)
		c.Hashes = hashes

		for i := range 2 {
			p, err := c.Build(model.LevelTeam)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			job := model.NewJob(model.RunConfig{Season: 2023, Level: model.LevelTeam, CurrentSeason: 2023, CurrentWeek: 4, OutputDir: out})
			if err := p.Execute(context.Background(), job); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, e := range job.Exports {
				if e.Unchanged != (i == 1) {
					t.Errorf("run %d: %s Unchanged = %v", i, e.Category, e.Unchanged)
				}
				hashes.seen[e.Unit+"/"+e.Category] = e.Hash
			}
		}
	})
}

type memoryHashes struct {
	seen map[string]string
}

func (m *memoryHashes) LatestHash(_ context.Context, _ int, _ model.Level, unit, category string) (string, error) {
	return m.seen[unit+"/"+category], nil
}

func TestOrganizeStepRecordsMalformedURLs(t *testing.T) {
	t.Parallel()

	job := newTestJob()
	job.CategoryURLs = []string{
		"https://www.nfl.com/stats/",
		"https://www.nfl.com/stats/team-stats/defense/passing/2020/reg/all",
	}

	if err := NewOrganizeStep(log.Discard()).Do(context.Background(), job); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if job.Links.CategoryCount() != 1 {
		t.Errorf("CategoryCount() = %d, want 1", job.Links.CategoryCount())
	}
	if len(job.Failures) != 1 || job.Failures[0].URL != "https://www.nfl.com/stats/" {
		t.Errorf("Failures = %+v", job.Failures)
	}
}

func TestRunner(t *testing.T) {
	t.Parallel()

	clock := season.FixedClock(time.Date(2023, time.October, 1, 10, 0, 0, 0, time.UTC))

	t.Run("validates seasons and runs every level", func(t *testing.T) {
		t.Parallel()

		var built []model.Level
		factory := func(level model.Level) (*Pipeline, error) {
			built = append(built, level)
			return New(WithLogger(log.Discard())), nil
		}

		var hooked []string
		r := NewRunner(factory, []model.Level{model.LevelPlayer, model.LevelTeam}, "data",
			WithSeasonClock(clock),
			WithRunnerLogger(log.Discard()),
			WithJobHook(func(_ context.Context, job *model.Job) error {
				hooked = append(hooked, fmt.Sprintf("%d/%s", job.Config.Season, job.Config.Level))
				return nil
			}),
		)

		jobs, err := r.Run(context.Background(), []int{1969, 2022, 2024})
		if !errors.Is(err, season.ErrSeasonTooEarly) || !errors.Is(err, season.ErrSeasonInFuture) {
			t.Fatalf("expected both season errors, got %v", err)
		}
		if len(jobs) != 2 {
			t.Fatalf("len(jobs) = %d, want 2", len(jobs))
		}
		if diff := cmp.Diff([]string{"2022/player", "2022/team"}, hooked); diff != "" {
			t.Errorf("hooks mismatch (-want +got):\n%s", diff)
		}
		if jobs[0].Config.CurrentSeason != 2023 || jobs[0].Config.CurrentWeek != 4 {
			t.Errorf("current = %d week %d, want 2023 week 4", jobs[0].Config.CurrentSeason, jobs[0].Config.CurrentWeek)
		}
		if len(built) != 2 {
			t.Errorf("built %d pipelines, want 2", len(built))
		}
	})

	t.Run("season with every level failing is reported", func(t *testing.T) {
		t.Parallel()

		factory := func(model.Level) (*Pipeline, error) {
			p := New(WithLogger(log.Discard()))
			p.AddStep(&recordingStep{name: "x", called: new([]string), err: fmt.Errorf("down")})
			return p, nil
		}
		r := NewRunner(factory, []model.Level{model.LevelPlayer, model.LevelTeam}, "data",
			WithSeasonClock(clock), WithRunnerLogger(log.Discard()))

		jobs, err := r.Run(context.Background(), []int{2023})
		if !errors.Is(err, ErrSeasonFailed) {
			t.Fatalf("expected ErrSeasonFailed, got %v", err)
		}
		if len(jobs) != 2 {
			t.Errorf("len(jobs) = %d, want 2", len(jobs))
		}
	})

	t.Run("cancellation stops the run", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		factory := func(model.Level) (*Pipeline, error) {
			p := New(WithLogger(log.Discard()))
			p.AddStep(&recordingStep{name: "x", called: new([]string), cancel: cancel})
			return p, nil
		}
		r := NewRunner(factory, []model.Level{model.LevelPlayer, model.LevelTeam}, "data",
			WithSeasonClock(clock), WithRunnerLogger(log.Discard()))

		jobs, err := r.Run(ctx, []int{2021, 2022})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if len(jobs) != 1 {
			t.Errorf("len(jobs) = %d, want 1", len(jobs))
		}
	})
}
