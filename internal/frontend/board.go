package frontend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"

	"flippair/internal/game"
)

// Board renders one game session: the card grid plus the controls around it.
// It is purely a renderer; every tap goes to the server and the grid redraws
// from the next snapshot.
type Board struct {
	app.Compo
	SessionID string
	Snapshot  *game.Snapshot
	Error     string

	onUpdate func()
}

func (b *Board) OnAppUpdate(ctx app.Context) {
	klog.Infof("Board component: App update available, not reloading mid-game...")
}

func (b *Board) OnMount(ctx app.Context) {
	klog.V(1).Infof("Board component: OnMount called")
	b.Snapshot = State.Snapshot
	b.onUpdate = func() {
		ctx.Dispatch(func(ctx app.Context) {
			b.Snapshot = State.Snapshot
			b.Error = State.Error
		})
	}
	State.Listeners["board"] = b.onUpdate
}

func (b *Board) OnDismount() {
	delete(State.Listeners, "board")
}

func (b *Board) OnNav(ctx app.Context) {
	b.Snapshot = State.Snapshot

	path := app.Window().URL().Path
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	klog.V(1).Infof("Board component: Navigated to %s, parts: %v", path, parts)
	if len(parts) >= 2 && parts[0] == "game" {
		b.SessionID = parts[1]
	}

	if b.SessionID == "" {
		b.Error = "No game ID provided"
		klog.Errorf("Board component: %s", b.Error)
		return
	}

	if State.Conn == nil || State.SessionID != b.SessionID {
		if err := State.ConnectWS(b.SessionID); err != nil {
			b.Error = fmt.Sprintf("Failed to connect to game: %v", err)
			klog.Errorf("Board component: %v", err)
		}
	}
}

func (b *Board) onCardClick(index int) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		State.SendTap(index)
	}
}

func (b *Board) onRestart(ctx app.Context, e app.Event) {
	e.PreventDefault()
	State.SendReset()
}

func (b *Board) onPairCountChange(ctx app.Context, e app.Event) {
	n, err := strconv.Atoi(ctx.JSSrc().Get("value").String())
	if err != nil {
		return
	}
	State.SendResize(n)
}

func (b *Board) renderCard(index int, cv game.CardView) app.UI {
	switch {
	case cv.Matched:
		// Matched cards stay in the grid but are visually retired.
		return app.Div().Class("card", "card-matched")
	case cv.FaceUp:
		return app.Div().Class("card", "card-up").Body(
			app.Span().Class("card-symbol").Text(cv.Content),
		)
	default:
		return app.Button().Class("card", "card-down").
			OnClick(b.onCardClick(index)).
			Text("?")
	}
}

func (b *Board) renderControls() app.UI {
	options := make([]app.UI, 0, len(game.PairChoices))
	for _, n := range game.PairChoices {
		opt := app.Option().Value(strconv.Itoa(n)).Text(fmt.Sprintf("%d pairs", n))
		if b.Snapshot != nil && n == b.Snapshot.PairCount {
			opt = opt.Selected(true)
		}
		options = append(options, opt)
	}

	return app.Div().Class("board-controls").Body(
		app.Select().OnChange(b.onPairCountChange).Body(options...),
		app.Button().Text("Restart").OnClick(b.onRestart),
		app.Img().Class("share-qr").
			Src("/qr.png?session="+b.SessionID).
			Alt("Scan to open this game"),
	)
}

func (b *Board) Render() app.UI {
	if b.Error != "" {
		return app.Main().Class("container").Body(
			app.Article().Body(
				app.H2().Text("Game Error"),
				app.P().Style("color", "red").Text(b.Error),
				app.A().Href("#").OnClick(func(ctx app.Context, e app.Event) {
					State.Error = ""
					ctx.Navigate("/")
				}).Text("Return to Home"),
			),
		)
	}

	if b.Snapshot == nil {
		return app.Main().Class("container").Body(
			&TopBar{},
			app.Div().Aria("busy", "true").Text("Connecting to game..."),
		)
	}

	cards := make([]app.UI, len(b.Snapshot.Cards))
	for i, cv := range b.Snapshot.Cards {
		cards[i] = b.renderCard(i, cv)
	}

	var banner app.UI
	if b.Snapshot.Won {
		banner = app.Article().Class("win-banner").Body(
			app.H2().Text("🎉 All pairs found!"),
			app.Button().Text("Play again").OnClick(b.onRestart),
		)
	} else {
		banner = app.P().Class("progress-line").Text(
			fmt.Sprintf("%d / %d pairs", b.Snapshot.MatchedPairs, b.Snapshot.PairCount))
	}

	return app.Main().Class("container").Body(
		&TopBar{},
		banner,
		app.Div().Class("card-grid").Body(cards...),
		b.renderControls(),
	)
}
