// Command kds is a terminal kitchen display: it follows the orders of a
// SwiftServe server through polling and the WebSocket feed and redraws the
// board whenever they change.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/swiftserve/client"
	"github.com/ray-remotestate/swiftserve/kitchen"
	"github.com/ray-remotestate/swiftserve/models"
)

func main() {
	apiURL := flag.String("api", "http://127.0.0.1:8000", "SwiftServe API base URL")
	table := flag.Int("table", 0, "only show this table (0 shows all)")
	role := flag.String("role", "staff", "role to log in as")
	password := flag.String("password", os.Getenv("KDS_PASSWORD"), "staff password, when the server requires login")
	poll := flag.Duration("poll", client.DefaultPollInterval, "polling interval")
	flag.Parse()

	logrus.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(*apiURL)
	if h := api.HealthCheck(ctx); h.Status == "offline" {
		logrus.Warnf("server %s is offline: %s", *apiURL, h.Error)
	}
	if *password != "" {
		if _, err := api.Login(ctx, models.Role(*role), *password); err != nil {
			logrus.Fatalf("failed to log in, error: %v", err)
		}
	}

	book := client.NewOrderBook(api)
	book.PollInterval = *poll

	var mu sync.Mutex
	redraw := func() {
		mu.Lock()
		defer mu.Unlock()
		board := kitchen.Build(book.Orders(), *table, time.Now())
		render(os.Stdout, board)
	}
	book.OnChange(redraw)

	sub, err := client.NewSubscriber(*apiURL)
	if err != nil {
		logrus.Fatalf("invalid api url, error: %v", err)
	}
	book.Attach(sub)
	sub.Subscribe(models.EventDisconnected, func(models.Event) {
		logrus.Warn("live updates lost, relying on polling")
	})
	go func() {
		if err := sub.Run(ctx); errors.Is(err, client.ErrGaveUp) {
			logrus.Warn("giving up on live updates")
		}
	}()

	book.Run(ctx)
	sub.Close()
}

func render(w io.Writer, board kitchen.Board) {
	fmt.Fprint(w, "\033[H\033[2J")
	fmt.Fprintf(w, "KITCHEN  %s  %d active  tables %v\n\n", board.GeneratedAt.Format("15:04:05"), board.Count(), board.Tables)

	columns := []struct {
		title string
		cards []kitchen.Card
	}{
		{"NEW", board.New},
		{"PREPARING", board.Preparing},
		{"READY", board.Ready},
	}
	for _, col := range columns {
		fmt.Fprintf(w, "== %s (%d)\n", col.title, len(col.cards))
		for _, card := range col.cards {
			o := card.Order
			fmt.Fprintf(w, "  [%s] table %d  %s  %dm/%dm  %s\n",
				strings.ToUpper(string(card.Urgency)), o.TableNumber, o.CustomerName,
				card.ElapsedMinutes, card.EstimatedPrep, o.ID)
			for _, item := range o.Items {
				fmt.Fprintf(w, "      %d x %s\n", item.Quantity, item.Name)
				if item.KitchenInstruction != "" {
					fmt.Fprintf(w, "          %s\n", item.KitchenInstruction)
				}
			}
			if o.CustomerInstructions != "" {
				fmt.Fprintf(w, "      note: %s\n", o.CustomerInstructions)
			}
		}
		fmt.Fprintln(w)
	}
}
