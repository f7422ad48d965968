package frontend

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"

	"flippair/internal/game"
)

// Home is the landing page component
type Home struct {
	app.Compo
	GameName string
}

func (h *Home) OnMount(ctx app.Context) {
	klog.V(1).Infof("Home: OnMount called")
	State.Listeners["home"] = func() {
		ctx.Dispatch(func(ctx app.Context) {})
	}
}

func (h *Home) OnDismount() {
	delete(State.Listeners, "home")
}

func (h *Home) OnAppUpdate(ctx app.Context) {
	klog.Infof("Home component: App update available, reloading...")
	ctx.Reload()
}

func (h *Home) onGameNameChange(ctx app.Context, e app.Event) {
	h.GameName = ctx.JSSrc().Get("value").String()
}

func (h *Home) onPairCountChange(ctx app.Context, e app.Event) {
	if n, err := strconv.Atoi(ctx.JSSrc().Get("value").String()); err == nil {
		State.PendingPairs = n
	}
}

func (h *Home) onStartGame(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if h.GameName == "" {
		h.GameName = fmt.Sprintf("game-%d", rand.IntN(10000))
	}
	ctx.Navigate("/game/" + h.GameName)
}

func (h *Home) Render() app.UI {
	options := make([]app.UI, 0, len(game.PairChoices))
	for _, n := range game.PairChoices {
		opt := app.Option().Value(strconv.Itoa(n)).Text(fmt.Sprintf("%d pairs", n))
		if n == State.PendingPairs {
			opt = opt.Selected(true)
		}
		options = append(options, opt)
	}

	return app.Main().Class("container").Body(
		&TopBar{},
		app.Article().Body(
			app.Header().Body(
				app.H2().Text("Start a Game"),
			),
			app.P().Text("Pick a board size and flip cards to find all matching pairs."),
			app.Form().OnSubmit(h.onStartGame).Body(
				app.Label().For("gameName").Text("Game Name"),
				app.Input().
					Type("text").
					ID("gameName").
					Name("gameName").
					Placeholder("leave empty for a random name").
					Value(h.GameName).
					OnInput(h.onGameNameChange),
				app.Label().For("pairCount").Text("Board Size"),
				app.Select().ID("pairCount").OnChange(h.onPairCountChange).Body(options...),
				app.Button().Type("submit").Text("Start"),
			),
		),
	)
}
