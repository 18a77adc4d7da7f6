package room

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/notify"
	"github.com/Ahmed01061/Naafe/internal/offerflow"
)

// Line is a rendered chat message.
type Line struct {
	ID   string
	Mine bool
	Text string
	Time string
}

// EmptyState is shown instead of the timeline when there are no messages.
type EmptyState struct {
	Title string
	Body  string
}

// Sidebar is the offer panel next to the conversation.
type Sidebar struct {
	// Diagnostic replaces the panel when there is no offer or negotiation to show.
	Diagnostic   string
	State        offerflow.FlowState
	Terms        *domain.Terms
	Confirmation domain.ConfirmationStatus
	Hint         string
	Badges       []string
	Actions      []string
	Summary      *offerflow.Summary
	History      []domain.NegotiationEntry
}

// View is everything the page shows.
type View struct {
	Title       string
	Subtitle    string
	Connected   bool
	Messages    []Line
	Empty       *EmptyState
	CanLoadMore bool
	Sidebar     Sidebar
	Payment     offerflow.PaymentModal
	Error       string
}

// View builds the current page model.
func (r *Room) View(ctx context.Context) View {
	v := View{
		Connected: r.session.Connected(),
		Error:     r.session.Error(),
	}

	other, ok := r.session.OtherParticipant()
	name := domain.UnknownUserName
	if ok {
		if full := other.Name.Full(); full != "" {
			name = full
		}
		v.Title = fmt.Sprintf(notify.ChatTitleFmt, name)
	}
	if conv, ok := r.session.Conversation(); ok {
		v.Subtitle = conv.JobRequest.Title
	}

	me := r.session.UserID()
	for _, m := range r.session.Messages() {
		v.Messages = append(v.Messages, Line{
			ID:   m.ID,
			Mine: m.SenderID == me,
			Text: m.Content,
			Time: m.Timestamp.Local().Format("15:04"),
		})
	}
	if len(v.Messages) == 0 {
		if ok {
			v.Empty = &EmptyState{
				Title: notify.EmptyChatTitle,
				Body:  fmt.Sprintf(notify.EmptyChatBodyFmt, name),
			}
		}
	} else {
		v.CanLoadMore = r.session.HasMore()
	}

	v.Sidebar = r.sidebar(ctx)
	v.Payment = r.flow.PaymentModal()
	return v
}

func (r *Room) sidebar(ctx context.Context) Sidebar {
	var sb Sidebar

	offerID := r.flow.OfferID()
	if offerID == "" {
		if _, resolved := r.session.OfferID(); resolved {
			sb.Diagnostic = notify.MsgNoOfferID
		}
		sb.State = offerflow.StateNoOffer
		return sb
	}

	sb.State = r.flow.State()
	if o, ok := r.flow.Offer(); ok {
		s := offerflow.Summarize(o)
		sb.Summary = &s
	}

	status := r.flow.Status()
	switch {
	case status.OfferStatus == domain.OfferStatusCancelled:
		sb.Badges = append(sb.Badges, notify.BadgeCancelled, notify.SidebarCancelled)
	case status.OfferStatus == domain.OfferStatusCancellationRequested:
		sb.Badges = append(sb.Badges, notify.BadgeCancellationPending, notify.SidebarCancellationPending)
	case status.OfferStatus == domain.OfferStatusCompleted:
		sb.Badges = append(sb.Badges, notify.BadgeServiceCompleted)
	case status.ServiceInProgress || status.PaymentCompleted:
		sb.Badges = append(sb.Badges, notify.BadgeServiceInProgress)
	}

	neg, ok := r.flow.Negotiation()
	if !ok {
		sb.Diagnostic = notify.MsgNoNegotiation
	} else {
		terms := neg.CurrentTerms
		sb.Terms = &terms
		sb.Confirmation = neg.ConfirmationStatus
		sb.Hint = confirmationHint(r.flow.Role(), neg.ConfirmationStatus)
		sb.History = r.flow.History()
	}

	actions, err := r.flow.Actions(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("evaluate actions failed")
	}
	sb.Actions = actions
	return sb
}

func confirmationHint(role domain.Role, c domain.ConfirmationStatus) string {
	if !c.Confirmed(role) {
		return notify.MsgYouMustConfirm
	}
	if c.Both() {
		return ""
	}
	if role == domain.RoleSeeker {
		return notify.MsgAwaitingProvider
	}
	return notify.MsgAwaitingSeeker
}

// Render writes the page as text.
func (r *Room) Render(ctx context.Context, w io.Writer) error {
	return Render(w, r.View(ctx))
}

// Render writes v as text.
func Render(w io.Writer, v View) error {
	var b strings.Builder

	if v.Title != "" {
		b.WriteString("== " + v.Title + " ==\n")
	}
	if v.Subtitle != "" {
		b.WriteString(v.Subtitle + "\n")
	}
	if v.Error != "" {
		b.WriteString("! " + v.Error + "\n")
	}
	if v.CanLoadMore {
		b.WriteString("  (/more)\n")
	}

	if v.Empty != nil {
		b.WriteString("\n" + v.Empty.Title + "\n" + v.Empty.Body + "\n")
	}
	for _, l := range v.Messages {
		who := "<"
		if l.Mine {
			who = ">"
		}
		fmt.Fprintf(&b, "%s [%s] %s\n", who, l.Time, l.Text)
	}

	b.WriteString("\n--\n")
	sb := v.Sidebar
	if sb.Summary != nil {
		fmt.Fprintf(&b, "%s  %s\n", sb.Summary.Name, sb.Summary.Price.String())
	}
	for _, badge := range sb.Badges {
		b.WriteString("* " + badge + "\n")
	}
	if sb.Diagnostic != "" {
		b.WriteString(sb.Diagnostic + "\n")
	}
	if t := sb.Terms; t != nil {
		fmt.Fprintf(&b, "price=%s date=%s time=%s materials=%s scope=%s\n",
			t.Price.String(), t.Date, t.Time, t.Materials, t.Scope)
		fmt.Fprintf(&b, "seeker=%t provider=%t\n", sb.Confirmation.Seeker, sb.Confirmation.Provider)
	}
	if sb.Hint != "" {
		b.WriteString(sb.Hint + "\n")
	}
	if len(sb.History) > 0 {
		b.WriteString("history:\n")
		for _, e := range sb.History {
			fmt.Fprintf(&b, "  [%s] %s %s price=%s date=%s time=%s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04"), e.Actor, e.Action,
				e.Terms.Price.String(), e.Terms.Date, e.Terms.Time)
		}
	}
	if len(sb.Actions) > 0 {
		b.WriteString("actions: " + strings.Join(sb.Actions, ", ") + "\n")
	}

	if p := v.Payment; p.Open {
		fmt.Fprintf(&b, "\n[payment] %s | %s %s %s %s\n", p.Title, p.Provider, p.Amount.String(), p.Date, p.Time)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
