package ui

import "github.com/charmbracelet/lipgloss"

var (
	normalDim = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
	gray      = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	midGray   = lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"}
	fuchsia   = lipgloss.Color("#EE6FF8")
	red       = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	cream     = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
	green     = lipgloss.Color("#04B575")
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}

	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(fuchsia).
			Padding(0, 1).
			Render

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(red).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(gray)

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(red).
				Render

	labelStyle = lipgloss.NewStyle().
			Foreground(normalDim).
			Width(12).
			Render

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(fuchsia).
				Bold(true).
				Width(12).
				Render

	valueStyle = lipgloss.NewStyle().
			Foreground(normalDim).
			Render

	sliderFilledStyle = lipgloss.NewStyle().Foreground(fuchsia).Render
	sliderEmptyStyle  = lipgloss.NewStyle().Foreground(midGray).Render
	sliderKnobStyle   = lipgloss.NewStyle().Foreground(cream).Render

	inputBlurredStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(midGray)

	inputFocusedStyle = inputBlurredStyle.
				BorderForeground(fuchsia)

	buttonStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(gray).
			Padding(0, 3).
			Render

	buttonFocusedStyle = lipgloss.NewStyle().
				Foreground(cream).
				Background(fuchsia).
				Bold(true).
				Padding(0, 3).
				Render

	buttonPlayingStyle = lipgloss.NewStyle().
				Foreground(cream).
				Background(green).
				Padding(0, 3).
				Render

	spinnerStyle = lipgloss.NewStyle().
			Foreground(green)

	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(fuchsia).
			Bold(true).
			Render

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg).
				Render

	statusBarStateStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#949494", Dark: "#5A5A5A"}).
				Background(statusBarBg).
				Render

	statusBarHelpStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"}).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen).
				Render

	statusBarMessageStateStyle = lipgloss.NewStyle().
					Foreground(mintGreen).
					Background(darkGreen).
					Render

	statusBarMessageHelpStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("#B6FFE4")).
					Background(green).
					Render

	helpViewStyle = lipgloss.NewStyle().
			Foreground(statusBarNoteFg).
			Background(lipgloss.AdaptiveColor{Light: "#f2f2f2", Dark: "#1B1B1B"}).
			Render
)

func logoView() string {
	return logoStyle(" TextReader ")
}
