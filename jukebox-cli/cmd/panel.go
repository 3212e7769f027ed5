/*
 * panel.go
 *
 * Front panel in the terminal: the LCD, the machine states and a push
 * button driven from the keyboard.
 */
package cmd

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
)

// Hold times for the panel keys, one inside each press band.
const (
	ShortPressMs = 100
	NextSongMs   = 700
	PowerMs      = 1200

	panelRefresh = 200 * time.Millisecond
	lcdColumns   = 16
)

var (
	lcdOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1a1a")).
			Background(lipgloss.Color("#9bbc0f")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	lcdOffStyle = lcdOnStyle.Copy().
			Foreground(lipgloss.Color("#333")).
			Background(lipgloss.Color("#111"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	stateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fff")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f55"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Interactive front panel for the jukebox",
	Run: func(cmd *cobra.Command, args []string) {
		p := tea.NewProgram(newPanelModel(apiPanelDevice{}))
		if _, err := p.Run(); err != nil {
			log.Fatalf("panel: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(panelCmd)
}

// panelDevice is what the panel needs from jukeboxd.
type panelDevice interface {
	Status() (jukebox.DeviceStatus, error)
	Click(holdms int) error
}

type apiPanelDevice struct{}

func (apiPanelDevice) Status() (jukebox.DeviceStatus, error) {
	return FetchStatus()
}

func (apiPanelDevice) Click(holdms int) error {
	br, err := SendButton("click", holdms)
	if err != nil {
		return err
	}
	if br.Error {
		return fmt.Errorf("%s", br.ErrorMsg)
	}
	return nil
}

type tickMsg time.Time

type statusMsg struct {
	status jukebox.DeviceStatus
	err    error
}

type clickedMsg struct {
	hold int
	err  error
}

type panelModel struct {
	dev      panelDevice
	status   jukebox.DeviceStatus
	haveData bool
	lastKey  string
	err      error
	quitting bool
}

func newPanelModel(dev panelDevice) panelModel {
	return panelModel{dev: dev}
}

func tick() tea.Cmd {
	return tea.Tick(panelRefresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m panelModel) fetch() tea.Cmd {
	dev := m.dev
	return func() tea.Msg {
		ds, err := dev.Status()
		return statusMsg{status: ds, err: err}
	}
}

func (m panelModel) click(hold int) tea.Cmd {
	dev := m.dev
	return func() tea.Msg {
		return clickedMsg{hold: hold, err: dev.Click(hold)}
	}
}

func (m panelModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), tick())
}

func (m panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ":
			m.lastKey = "short press"
			return m, m.click(ShortPressMs)
		case "n":
			m.lastKey = "next song"
			return m, m.click(NextSongMs)
		case "p":
			m.lastKey = "power"
			return m, m.click(PowerMs)
		}

	case tickMsg:
		return m, tea.Batch(m.fetch(), tick())

	case statusMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
			m.haveData = true
		}

	case clickedMsg:
		m.err = msg.err
		if msg.err == nil {
			return m, m.fetch()
		}
	}
	return m, nil
}

func (m panelModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	ds := m.status

	lcd := lcdOffStyle
	if ds.Backlight {
		lcd = lcdOnStyle
	}
	rows := make([]string, len(ds.Display))
	for i, l := range ds.Display {
		rows[i] = fmt.Sprintf("%-*s", lcdColumns, l)
	}
	b.WriteString(lcd.Render(strings.Join(rows, "\n")))
	b.WriteString("\n\n")

	if m.haveData {
		machines := make([]string, 0, len(ds.States))
		for name := range ds.States {
			machines = append(machines, name)
		}
		sort.Strings(machines)
		for _, name := range machines {
			b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-11s", name)),
				stateStyle.Render(ds.States[name])))
		}
		b.WriteString("\n")

		melody := ds.Melody
		if melody == "" {
			melody = "---"
		}
		b.WriteString(fmt.Sprintf("%s %s (slot %d) %s\n", labelStyle.Render("melody     "),
			melody, ds.MelodyIndex, ds.Action))
		b.WriteString(fmt.Sprintf("%s %.0f%%  %s x%.2f\n", labelStyle.Render("volume     "),
			ds.Volume*100, labelStyle.Render("speed"), ds.Speed))
		tone := "silent"
		if ds.Tone > 0 {
			tone = fmt.Sprintf("%.0f Hz", ds.Tone)
		}
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("buzzer     "), tone))
		if ds.Gaming {
			b.WriteString(stateStyle.Render("guess the melody!") + "\n")
		}
	} else {
		b.WriteString(labelStyle.Render("waiting for jukeboxd...") + "\n")
	}

	if m.lastKey != "" {
		b.WriteString(labelStyle.Render("last: "+m.lastKey) + "\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("space: short press • n: next song • p: power • q: quit") + "\n")
	return b.String()
}
