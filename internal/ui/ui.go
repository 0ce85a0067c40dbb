package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/amzx/internal/models"
	"github.com/desertthunder/amzx/internal/shared"
	"github.com/desertthunder/amzx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	ContainerListView
	TrackListView
	TrackDetailView
)

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	engine        *tasks.DecodeEngine
	paths         []string
	opts          tasks.BatchOpts
	width         int
	height        int
	containerList list.Model
	trackList     list.Model
	batch         *tasks.BatchResult
	selected      *tasks.FileResult
	track         *trackItem
	progressChan  chan tasks.ProgressUpdate
	doneChan      chan Msg
	progress      tasks.ProgressUpdate
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates a browser that decodes paths with engine when started.
func NewModel(ctx context.Context, engine *tasks.DecodeEngine, paths []string, opts tasks.BatchOpts) *Model {
	return &Model{
		ctx:           ctx,
		view:          LoadingView,
		engine:        engine,
		paths:         paths,
		opts:          opts,
		containerList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		trackList:     list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init starts decoding the containers.
func (m *Model) Init() tea.Cmd {
	return m.startBatch()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.containerList.SetSize(m.listSize())
		m.trackList.SetSize(m.listSize())
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ContainerListView:
			return m.handleContainerListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case TrackDetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgBatchComplete:
			data := msg.data.(batchComplete)
			m.progressChan = nil
			m.doneChan = nil
			m.setBatch(data.result, data.err)
			return m, nil
		}
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case ContainerListView:
		return m.renderContainerList()
	case TrackListView:
		return m.renderTrackList()
	case TrackDetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) setBatch(result *tasks.BatchResult, err error) {
	m.batch = result
	m.err = err

	var results []tasks.FileResult
	if result != nil {
		results = result.Results
	}

	items := make([]list.Item, len(results))
	for i, res := range results {
		items[i] = containerItem{result: res}
	}

	m.containerList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.containerList.SetSize(m.listSize())
	m.containerList.Title = "Containers"
	if result != nil {
		m.containerList.Title = fmt.Sprintf("Containers (%d decoded, %d failed)", result.Decoded, result.Failed)
	}
	m.view = ContainerListView
}

func (m *Model) openContainer(res tasks.FileResult) {
	m.selected = &res

	items := make([]list.Item, len(res.Export.Tracks))
	for i, track := range res.Export.Tracks {
		items[i] = trackItem{position: i + 1, track: track}
	}

	m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.trackList.SetSize(m.listSize())
	m.trackList.Title = fmt.Sprintf("Tracks in '%s'", res.Export.Playlist.Name)
	m.view = TrackListView
}

// listSize leaves room for the help line and margins.
func (m *Model) listSize() (int, int) {
	return max(m.width-4, 0), max(m.height-6, 0)
}

func (m *Model) handleContainerListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.containerList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.containerList, cmd = m.containerList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.view = LoadingView
		m.progress = tasks.ProgressUpdate{}
		return m, m.startBatch()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.containerList.SelectedItem().(containerItem); ok && item.result.OK() {
			m.openContainer(item.result)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.containerList, cmd = m.containerList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ContainerListView
		m.selected = nil
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.trackList.SelectedItem().(trackItem); ok {
			m.track = &item
			m.view = TrackDetailView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = TrackListView
		m.track = nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ContainerListView:
		m.containerList, cmd = m.containerList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

// startBatch runs the engine in the background. The final result is queued on doneChan
// before progressChan is closed, so the reader always finds it.
func (m *Model) startBatch() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done

	go func() {
		result, err := m.engine.Batch(m.ctx, progress, m.paths, m.opts)
		done <- batchCompleteMsg(result, err)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return batchCompleteMsg(m.batch, m.err)
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderLoading() string {
	title := styles.Title(fmt.Sprintf("Decoding %d %s", len(m.paths), shared.Pluralize(len(m.paths), "container")))

	status := "Starting..."
	if m.progress.Message != "" {
		status = m.progress.Message
	}
	if m.progress.Phase == tasks.DecodeContainers && m.progress.Total > 0 {
		status = fmt.Sprintf("%s\n%s", status, styles.Muted(fmt.Sprintf("%d/%d", m.progress.Step, m.progress.Total)))
	}

	return fmt.Sprintf("%s\n%s\n\n%s", title, status, m.help.ShortHelpView([]key.Binding{m.keys.quit}))
}

func (m *Model) renderContainerList() string {
	var banner string
	if m.err != nil {
		banner = styles.Err(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.reload, m.keys.quit})
	return fmt.Sprintf("%s%s\n\n%s", banner, m.containerList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.track == nil {
		return ""
	}

	t := m.track.track
	var sb strings.Builder
	sb.WriteString(styles.Title(fmt.Sprintf("Track %d of %d", m.track.position, len(m.selected.Export.Tracks))))
	sb.WriteString("\n")

	for _, row := range detailRows(t) {
		sb.WriteString(styles.label.Render(row[0]))
		sb.WriteString(" ")
		sb.WriteString(row[1])
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	return sb.String()
}

func detailRows(t models.Track) [][2]string {
	orNone := func(s string) string {
		if s == "" {
			return styles.Muted("(none)")
		}
		return s
	}

	trackNum := styles.Muted("(none)")
	if t.TrackNum != 0 {
		trackNum = fmt.Sprint(t.TrackNum)
	}

	return [][2]string{
		{"Title", orNone(t.Title)},
		{"Creator", orNone(t.Creator)},
		{"Album", orNone(t.Album)},
		{"Track", trackNum},
		{"Duration", shared.FormatDuration(t.Duration)},
		{"Location", orNone(t.Location)},
	}
}
