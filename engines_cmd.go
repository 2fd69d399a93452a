package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dgnsrekt/textreader/internal/speech"
	"github.com/spf13/cobra"
)

var enginesCmd = &cobra.Command{
	Use:     "engines",
	Short:   "List speech engines and whether they can be used",
	Long:    paragraph(fmt.Sprintf("\n%s each speech engine: checks that its program is installed or its credentials are configured.", keyword("Validate"))),
	Example: paragraph("textreader engines"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listEngines(cmd.OutOrStdout(), engineConfig)
	},
}

type engineStatus struct {
	Info speech.EngineInfo
	Err  error
}

func checkEngines(configFor func(string) speech.Config) []engineStatus {
	statuses := make([]engineStatus, 0, len(speech.EngineNames))
	for _, name := range speech.EngineNames {
		st := engineStatus{Info: speech.EngineInfo{Name: name}}
		e, err := speech.New(configFor(name))
		if err != nil {
			st.Err = err
			statuses = append(statuses, st)
			continue
		}
		st.Info = e.Info()
		st.Err = e.Validate()
		_ = e.Close()
		statuses = append(statuses, st)
	}
	return statuses
}

func listEngines(w io.Writer, configFor func(string) speech.Config) error {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ENGINE", "BACKEND", "WHERE", "STATUS")
	for _, st := range checkEngines(configFor) {
		where := "offline"
		if st.Info.IsOnline {
			where = "online"
		}
		status := keyword("available")
		if st.Err != nil {
			status = failure("unavailable: " + st.Err.Error())
		}
		t.Row(st.Info.Name, subtle(st.Info.Backend), where, status)
	}
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}
	return nil
}
