package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mcoot/flashdeck/internal/model"
	"github.com/mcoot/flashdeck/internal/services/study"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// JSON reports whether output is machine-readable
func (o *Output) JSON() bool {
	return o.format == "json"
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.JSON() {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.JSON() {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errOut, string(data))
	} else {
		fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.JSON() {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.out, string(data))
	} else {
		fmt.Fprintln(o.out, msg)
	}
}

// Prompt writes an interactive prompt; JSON output has none
func (o *Output) Prompt(msg string) {
	if !o.JSON() {
		fmt.Fprint(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case SessionResult:
		o.printSession(v)
	case []GameSummary:
		o.printGameList(v)
	case GameDetail:
		o.printGameDetail(v)
	case CardResult:
		o.printCard(v)
	case StudyCard:
		o.printStudyCard(v)
	case StudyBoard:
		o.printStudyBoard(v)
	case StudySummary:
		o.printStudySummary(v)
	case VersionResult:
		fmt.Fprintf(o.out, "flashdeck %s\n", v.Version)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// SessionResult describes the logged-in account
type SessionResult struct {
	Username      string `json:"username"`
	Streak        int    `json:"streak"`
	LongestStreak int    `json:"longest_streak"`
	LastLogin     string `json:"last_login,omitempty"`
}

func newSessionResult(s *model.Session) SessionResult {
	r := SessionResult{
		Username:      s.Username,
		Streak:        s.Streak.Count,
		LongestStreak: s.Streak.Longest,
	}
	if !s.Streak.LastLogin.IsZero() {
		r.LastLogin = s.Streak.LastLogin.String()
	}
	return r
}

// GameSummary is one row of the game list
type GameSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cards int    `json:"cards"`
}

// GameDetail is a game with all of its cards
type GameDetail struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Cards []CardResult `json:"cards"`
}

func newGameDetail(g model.Game) GameDetail {
	d := GameDetail{ID: string(g.ID), Title: g.Title, Cards: make([]CardResult, len(g.Cards))}
	for i, c := range g.Cards {
		d.Cards[i] = newCardResult(i, c)
	}
	return d
}

// CardResult is a flashcard with its 1-based position
type CardResult struct {
	Position int    `json:"position"`
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func newCardResult(index int, c model.Flashcard) CardResult {
	return CardResult{Position: index + 1, ID: string(c.ID), Question: c.Question, Answer: c.Answer}
}

// StudyCard is the card under the cursor during a review
type StudyCard struct {
	Game     string `json:"game"`
	Position int    `json:"position"`
	Total    int    `json:"total"`
	Side     string `json:"side"`
	Text     string `json:"text"`
}

func newStudyCard(s *study.Session) (StudyCard, error) {
	card, side, err := s.Current()
	if err != nil {
		return StudyCard{}, err
	}
	index, total := s.Position()
	return StudyCard{
		Game:     s.Title(),
		Position: index + 1,
		Total:    total,
		Side:     string(side),
		Text:     faceOf(card, side),
	}, nil
}

// StudyBoard shows every card of a review at once
type StudyBoard struct {
	Game  string      `json:"game"`
	Cards []StudyCard `json:"cards"`
}

func newStudyBoard(s *study.Session) StudyBoard {
	views := s.Cards()
	b := StudyBoard{Game: s.Title(), Cards: make([]StudyCard, len(views))}
	for i, v := range views {
		b.Cards[i] = StudyCard{
			Game:     s.Title(),
			Position: i + 1,
			Total:    len(views),
			Side:     string(v.Side),
			Text:     faceOf(v.Card, v.Side),
		}
	}
	return b
}

// StudySummary is printed when a review ends
type StudySummary struct {
	Game     string `json:"game"`
	Cards    int    `json:"cards"`
	Flips    int    `json:"flips"`
	Finished bool   `json:"finished"`
	Duration string `json:"duration"`
}

// VersionResult reports the build version
type VersionResult struct {
	Version string `json:"version"`
}

func faceOf(c model.Flashcard, side study.Side) string {
	if side == study.SideAnswer {
		return c.Answer
	}
	return c.Question
}

func sideLabel(side string) string {
	if side == string(study.SideAnswer) {
		return "A"
	}
	return "Q"
}

func (o *Output) printSession(s SessionResult) {
	fmt.Fprintf(o.out, "User: %s\n", s.Username)
	fmt.Fprintf(o.out, "Streak: %d (longest %d)\n", s.Streak, s.LongestStreak)
	if s.LastLogin != "" {
		fmt.Fprintf(o.out, "Last login: %s\n", s.LastLogin)
	}
}

func (o *Output) printGameList(games []GameSummary) {
	if len(games) == 0 {
		fmt.Fprintln(o.out, "No games")
		return
	}
	fmt.Fprintf(o.out, "Games (%d):\n", len(games))
	for _, g := range games {
		fmt.Fprintf(o.out, "  - %s (%s) - %d cards\n", g.Title, g.ID, g.Cards)
	}
}

func (o *Output) printGameDetail(g GameDetail) {
	fmt.Fprintf(o.out, "Game: %s (%s)\n", g.Title, g.ID)
	fmt.Fprintf(o.out, "Cards (%d):\n", len(g.Cards))
	for _, c := range g.Cards {
		fmt.Fprintf(o.out, "  %d. Q: %s\n", c.Position, c.Question)
		fmt.Fprintf(o.out, "     A: %s\n", c.Answer)
	}
}

func (o *Output) printCard(c CardResult) {
	fmt.Fprintf(o.out, "Card %d (%s)\n", c.Position, c.ID)
	fmt.Fprintf(o.out, "Q: %s\n", c.Question)
	fmt.Fprintf(o.out, "A: %s\n", c.Answer)
}

func (o *Output) printStudyCard(c StudyCard) {
	fmt.Fprintf(o.out, "[%d/%d] %s\n", c.Position, c.Total, c.Game)
	fmt.Fprintf(o.out, "%s: %s\n", sideLabel(c.Side), c.Text)
}

func (o *Output) printStudyBoard(b StudyBoard) {
	fmt.Fprintf(o.out, "%s\n", b.Game)
	for _, c := range b.Cards {
		fmt.Fprintf(o.out, "  %d. %s: %s\n", c.Position, sideLabel(c.Side), c.Text)
	}
}

func (o *Output) printStudySummary(s StudySummary) {
	if s.Finished {
		fmt.Fprintf(o.out, "Finished %s: %d cards, %d flips in %s\n", s.Game, s.Cards, s.Flips, s.Duration)
	} else {
		fmt.Fprintf(o.out, "Stopped %s: %d flips in %s\n", s.Game, s.Flips, s.Duration)
	}
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
