package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Ahmed01061/Naafe/internal/auth"
	"github.com/Ahmed01061/Naafe/internal/callback"
	"github.com/Ahmed01061/Naafe/internal/chat"
	"github.com/Ahmed01061/Naafe/internal/complaints"
	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/negotiation"
	"github.com/Ahmed01061/Naafe/internal/notify"
	"github.com/Ahmed01061/Naafe/internal/offerflow"
	"github.com/Ahmed01061/Naafe/internal/policy"
	"github.com/Ahmed01061/Naafe/internal/protocol"
	"github.com/Ahmed01061/Naafe/internal/realtime"
	"github.com/Ahmed01061/Naafe/internal/room"
	"github.com/Ahmed01061/Naafe/internal/store"
)

const chatHelp = `Type a message and press Enter to send.
Commands:
  /more                 load older messages
  /accept               accept the offer
  /pay [amount]         pay into escrow (defaults to the agreed price)
  /complete             confirm the service is done
  /cancel [reason]      request cancellation
  /terms key=value ...  propose terms (price, date, time, materials, scope)
  /confirm              confirm the current terms
  /reset                reset both confirmations
  /report <type> <text> report a problem
  /focus                re-check the offer status
  /reload               refetch the terms, their history and the status
  /show                 redraw the page
  /quit                 exit`

var chatCmd = &cobra.Command{
	Use:   "chat <chatId>",
	Short: "Open a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if !a.client.HasToken() {
		return errors.New("NAAFE_ACCESS_TOKEN is required")
	}
	userID := a.cfg.UserID
	if userID == "" {
		if userID, err = auth.UserIDFromToken(a.cfg.AccessToken); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	chatID := args[0]
	out := cmd.OutOrStdout()

	channel := realtime.New(realtime.Config{
		URL:               a.cfg.SocketURL,
		Token:             a.cfg.AccessToken,
		PingInterval:      a.cfg.PingInterval,
		WriteTimeout:      a.cfg.WriteTimeout,
		ReadTimeout:       a.cfg.ReadTimeout,
		ReconnectDelay:    a.cfg.ReconnectDelay,
		MaxReconnectDelay: a.cfg.MaxReconnectDelay,
	}, a.log)
	go func() {
		if err := channel.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error().Err(err).Msg("socket channel stopped")
		}
	}()
	defer channel.Close()

	storage, err := store.NewSQLiteStore(a.cfg.StateDB)
	if err != nil {
		return err
	}
	defer storage.Close()

	engine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		return err
	}
	book, err := offerflow.NewOfferBook(128)
	if err != nil {
		return err
	}

	session := chat.NewSession(chat.Deps{API: a.client, Socket: channel, Log: a.log}, chat.Options{
		ConversationID: chatID,
		UserID:         userID,
		PageSize:       a.cfg.MessagePageSize,
	})
	flow := offerflow.New(offerflow.Deps{
		API:          a.client,
		Negotiations: negotiation.NewStore(a.client, a.log),
		Offers:       book,
		Storage:      storage,
		Notifier:     a.notify,
		Policy:       engine,
		Log:          a.log,
	}, offerflow.Options{PollInterval: a.cfg.StatusPollInterval})
	r := room.New(room.Deps{
		Session:  session,
		Flow:     flow,
		Reporter: complaints.NewReporter(a.client, a.notify, a.log),
		Socket:   channel,
		Log:      a.log,
	}, room.Options{Poll: true})
	defer r.Close()

	if a.cfg.CallbackPort > 0 {
		srv := callback.NewServer(channel, a.log)
		srv.OnPaymentReturn(func(ctx context.Context, id string, query url.Values) bool {
			if id != chatID {
				return false
			}
			return flow.ReturnFromPayment(ctx, query)
		})
		go func() {
			if err := srv.Start(a.cfg.CallbackAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error().Err(err).Msg("callback listener stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	offPrint := channel.On(protocol.EventReceiveMessage, func(ev protocol.Inbound) {
		if e, ok := ev.(protocol.ReceiveMessage); ok && e.Message.ConversationID == chatID {
			fmt.Fprintf(out, "\n< %s\n> ", e.Message.Content)
		}
	})
	defer offPrint()

	if err := r.Open(ctx); err != nil {
		a.flushToasts(cmd)
		if msg := session.Error(); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}

	if err := r.Render(ctx, out); err != nil {
		return err
	}
	a.flushToasts(cmd)
	fmt.Fprintln(out, "\n"+chatHelp)

	lines := readLines(ctx, cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nInterrupted")
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}
		if line == "" {
			continue
		}

		confirm := func(prompt string) bool { return askConfirm(ctx, out, lines, prompt) }
		quit, redraw := runChatCommand(ctx, r, out, line, confirm)
		a.flushToasts(cmd)
		if quit {
			fmt.Fprintln(out, "Bye!")
			return nil
		}
		if redraw {
			if err := r.Render(ctx, out); err != nil {
				return err
			}
		}
	}
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// askConfirm prints prompt and waits for the next input line; only "yes"
// (or "نعم") confirms.
func askConfirm(ctx context.Context, out io.Writer, lines <-chan string, prompt string) bool {
	fmt.Fprintf(out, "%s\ntype yes to confirm: ", prompt)
	select {
	case <-ctx.Done():
		return false
	case l, ok := <-lines:
		if !ok {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(l))
		return answer == "yes" || answer == "نعم"
	}
}

// runChatCommand executes one input line and reports whether to quit and redraw.
// Action failures have already been toasted by the flow.
func runChatCommand(ctx context.Context, r *room.Room, out io.Writer, line string, confirm func(prompt string) bool) (quit, redraw bool) {
	if !strings.HasPrefix(line, "/") {
		s := r.Session()
		s.SetDraft(line)
		if err := s.SendMessage(); err != nil {
			fmt.Fprintf(out, "✗ %s\n", s.Error())
		}
		return false, false
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	flow := r.Flow()

	switch name {
	case "/quit":
		return true, false
	case "/show":
	case "/more":
		if _, err := r.Session().LoadMore(ctx); err != nil {
			fmt.Fprintf(out, "✗ %v\n", err)
		}
	case "/accept":
		flow.AcceptOffer(ctx)
	case "/pay":
		amount := decimal.Zero
		if rest != "" {
			v, err := decimal.NewFromString(rest)
			if err != nil {
				fmt.Fprintf(out, "invalid amount %q\n", rest)
				return false, false
			}
			amount = v
		}
		if link, err := flow.Pay(ctx, amount); err == nil {
			fmt.Fprintf(out, "checkout: %s\n", link)
		}
	case "/complete":
		if !confirm(notify.MsgConfirmCompletion) {
			fmt.Fprintln(out, "cancelled")
			return false, false
		}
		flow.CompleteService(ctx)
	case "/cancel":
		flow.RequestCancellation(ctx, rest)
	case "/confirm":
		flow.ConfirmTerms(ctx)
	case "/reset":
		flow.ResetConfirmations(ctx)
	case "/terms":
		base := domain.Terms{}
		if n, ok := flow.Negotiation(); ok {
			base = n.CurrentTerms
		}
		terms, err := parseTerms(base, rest)
		if err != nil {
			fmt.Fprintln(out, err)
			return false, false
		}
		flow.EditTerms(ctx, terms)
	case "/report":
		problem, desc, _ := strings.Cut(rest, " ")
		if err := r.ReportProblem(ctx, problem, desc); err != nil {
			fmt.Fprintf(out, "✗ %v\n", err)
		}
	case "/focus":
		flow.Focus(ctx)
	case "/reload":
		if err := flow.Reload(ctx); err != nil {
			fmt.Fprintf(out, "✗ %v\n", err)
		}
	default:
		fmt.Fprintln(out, chatHelp)
		return false, false
	}
	return false, true
}

var termKeys = map[string]bool{"price": true, "date": true, "time": true, "materials": true, "scope": true}

// parseTerms applies "key=value ..." pairs on top of base. A token without a
// known key continues the previous value, so values may contain spaces.
func parseTerms(base domain.Terms, input string) (domain.Terms, error) {
	values := map[string]string{}
	var order []string
	current := ""
	for _, tok := range strings.Fields(input) {
		if k, v, found := strings.Cut(tok, "="); found && termKeys[k] {
			current = k
			values[k] = v
			order = append(order, k)
			continue
		}
		if current == "" {
			return base, fmt.Errorf("expected key=value, got %q", tok)
		}
		values[current] += " " + tok
	}
	if len(order) == 0 {
		return base, errors.New("no terms given")
	}

	terms := base
	for _, k := range order {
		v := strings.TrimSpace(values[k])
		switch k {
		case "price":
			price, err := decimal.NewFromString(v)
			if err != nil {
				return base, fmt.Errorf("invalid price %q", v)
			}
			terms.Price = price
		case "date":
			terms.Date = v
		case "time":
			terms.Time = v
		case "materials":
			terms.Materials = v
		case "scope":
			terms.Scope = v
		}
	}
	return terms, nil
}
