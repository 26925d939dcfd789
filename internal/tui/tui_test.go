package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/hls-downloader/internal/config"
	"github.com/handiism/hls-downloader/internal/download"
	"github.com/handiism/hls-downloader/internal/input"
	"github.com/handiism/hls-downloader/internal/model"
)

type stubProber struct{}

func (stubProber) Probe(context.Context, string) model.ProbeResult {
	return model.KnownDuration(10)
}

type stubTransferer struct{}

func (stubTransferer) Start(ctx context.Context, locator, _ string) (download.Process, error) {
	if strings.Contains(locator, "broken") {
		return nil, errors.New("no such binary")
	}
	if strings.Contains(locator, "stall") {
		return stalledProcess{ctx: ctx}, nil
	}
	return stubProcess{r: strings.NewReader("out_time_ms=5000000\nprogress=end\n")}, nil
}

type stubProcess struct{ r io.Reader }

func (p stubProcess) Stdout() io.Reader { return p.r }

func (p stubProcess) Wait() (int, error) { return 0, nil }

// stalledProcess sends no telemetry until its context ends, then exits with
// an error status like a killed ffmpeg.
type stalledProcess struct{ ctx context.Context }

func (p stalledProcess) Stdout() io.Reader { return p }

func (p stalledProcess) Read([]byte) (int, error) {
	<-p.ctx.Done()
	return 0, io.EOF
}

func (p stalledProcess) Wait() (int, error) { return 255, nil }

func newTestModel(t *testing.T) Model {
	t.Helper()
	s := config.DefaultSettings()
	s.OutputDir = t.TempDir()
	return NewModel(s,
		download.WithProber(stubProber{}),
		download.WithTransferer(stubTransferer{}),
		download.WithLogger(zerolog.Nop()),
	)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// drive runs cmd and feeds the resulting messages back into the model until
// every job has reported its outcome and the run is complete. hook, when set,
// sees the model after every message and may act on it.
func drive(t *testing.T, m Model, cmd tea.Cmd, hook ...func(Model) (Model, tea.Cmd)) Model {
	t.Helper()

	msgs := make(chan tea.Msg, 256)
	exec := func(c tea.Cmd) {
		if c != nil {
			go func() { msgs <- c() }()
		}
	}
	exec(cmd)

	timeout := time.After(5 * time.Second)
	for m.state != StateComplete || m.finished < len(m.rows) {
		select {
		case msg := <-msgs:
			switch msg := msg.(type) {
			case nil, spinner.TickMsg:
				continue
			case tea.BatchMsg:
				for _, c := range msg {
					exec(c)
				}
				continue
			}
			var next tea.Cmd
			m, next = update(t, m, msg)
			exec(next)
			for _, h := range hook {
				m, next = h(m)
				exec(next)
			}
		case <-timeout:
			t.Fatal("run did not complete")
		}
	}
	return m
}

func TestModel_RunToCompletion(t *testing.T) {
	m := newTestModel(t)
	m.textInput.SetValue("https://a/1.m3u8 https://a/broken.m3u8, https://a/3.m3u8")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, StateDownloading, m.state)
	require.Len(t, m.rows, 3)

	m = drive(t, m, cmd)

	assert.Equal(t, 3, m.finished)
	assert.Equal(t, 1, m.failed)
	assert.Equal(t, "Video 1/3 completed successfully!", m.rows[0])
	assert.Equal(t, "Video 2/3 failed to start: no such binary", m.rows[1])
	assert.Equal(t, []rowStatus{rowSucceeded, rowFailed, rowSucceeded}, m.status)

	view := m.View()
	assert.Contains(t, view, "Succeeded: 2")
	assert.Contains(t, view, "Failed: 1")
	assert.Contains(t, view, "Total download time:")
}

func TestModel_CancelledJobsStillReport(t *testing.T) {
	m := newTestModel(t)
	m.textInput.SetValue("https://a/stall1.m3u8 https://a/stall2.m3u8")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, StateDownloading, m.state)

	cancelOnceStarted := func(m Model) (Model, tea.Cmd) {
		if m.cancelled || m.state != StateDownloading {
			return m, nil
		}
		for _, row := range m.rows {
			if row == "" {
				return m, nil
			}
		}
		return update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	}
	m = drive(t, m, cmd, cancelOnceStarted)

	assert.True(t, m.cancelled)
	assert.Error(t, m.ctx.Err())
	assert.Equal(t, 2, m.finished)
	assert.Equal(t, 2, m.failed)
	assert.Equal(t, []rowStatus{rowFailed, rowFailed}, m.status)
	assert.Equal(t, "Video 1/2 failed with return code 255", m.rows[0])
	assert.Equal(t, "Video 2/2 failed with return code 255", m.rows[1])
}

func TestModel_ExitClosesQuit(t *testing.T) {
	tests := []struct {
		name  string
		state State
		key   tea.KeyMsg
	}{
		{"ctrl+c while downloading", StateDownloading, tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"esc on input", StateInput, tea.KeyMsg{Type: tea.KeyEsc}},
		{"q when complete", StateComplete, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.state = tt.state

			m, cmd := update(t, m, tt.key)

			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
			assert.Error(t, m.ctx.Err())
			select {
			case <-m.quit:
			default:
				t.Fatal("quit is still open")
			}
			assert.NotPanics(t, func() { m.exit() })
		})
	}
}

func TestModel_EscWhileDownloadingKeepsForwarding(t *testing.T) {
	m := newTestModel(t)
	m.state = StateDownloading

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, m.cancelled)
	assert.Error(t, m.ctx.Err())
	select {
	case <-m.quit:
		t.Fatal("quit closed by a cancel")
	default:
	}
}

func TestModel_EnterWithoutLocators(t *testing.T) {
	m := newTestModel(t)
	m.textInput.SetValue("   ")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, StateInput, m.state)
	assert.ErrorIs(t, m.err, input.ErrNoLocators)
	assert.Contains(t, m.View(), input.ErrNoLocators.Error())
}

func TestModel_TogglePlaylist(t *testing.T) {
	m := newTestModel(t)
	require.False(t, m.playlist)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.playlist)
	assert.Contains(t, m.View(), "[x] Create playlist")
	assert.Empty(t, m.textInput.Value())
}

func TestModel_RowAndOutcomeMessages(t *testing.T) {
	m := newTestModel(t)
	m.state = StateDownloading

	m, _ = update(t, m, RowMsg{Index: 2, Text: "Video 2/2 Elapsed: 3.0s"})
	require.Len(t, m.rows, 2)
	assert.Equal(t, "Video 2/2 Elapsed: 3.0s", m.rows[1])

	m, _ = update(t, m, OutcomeMsg{Outcome: model.Outcome{Index: 2, Succeeded: false}})
	assert.Equal(t, 1, m.finished)
	assert.Equal(t, 1, m.failed)
	assert.Equal(t, rowFailed, m.status[1])
	assert.InDelta(t, 0.5, m.percent(), 1e-9)
	assert.Contains(t, m.View(), "Finished: 1/2 | Failed: 1")

	m, _ = update(t, m, DoneMsg{Summary: model.Summary{Elapsed: 1500 * time.Millisecond}})
	assert.Equal(t, StateComplete, m.state)
	assert.Contains(t, m.View(), "Total download time: 1.50 seconds")
}

func TestModel_Reset(t *testing.T) {
	m := newTestModel(t)
	m.state = StateComplete
	m.rows = []string{"x"}
	m.status = []rowStatus{rowSucceeded}
	m.finished = 1

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	assert.Equal(t, StateInput, m.state)
	assert.Empty(t, m.rows)
	assert.Zero(t, m.finished)
	assert.NoError(t, m.ctx.Err())
}

func TestChannelRenderer_DropsAfterDone(t *testing.T) {
	ch := make(chan tea.Msg)
	done := make(chan struct{})
	r := channelRenderer{ch: ch, done: done}

	close(done)
	finished := make(chan struct{})
	go func() {
		r.UpdateRow(1, "ignored")
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("UpdateRow blocked after done")
	}
}

func TestChannelRenderer_Forwards(t *testing.T) {
	ch := make(chan tea.Msg, 1)
	r := channelRenderer{ch: ch, done: make(chan struct{})}

	r.UpdateRow(3, "Video 3/3 → L13.mp4")

	assert.Equal(t, RowMsg{Index: 3, Text: "Video 3/3 → L13.mp4"}, <-ch)
}

func TestParseLocators(t *testing.T) {
	got := parseLocators(" https://a/1.m3u8,https://a/2.m3u8   /local/3.m3u8 ")
	assert.Equal(t, []string{"https://a/1.m3u8", "https://a/2.m3u8", "/local/3.m3u8"}, got)
}
