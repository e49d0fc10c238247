package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/ffdash/internal/models"
	"github.com/omarshaarawi/ffdash/internal/present"
)

const helpText = "Available commands:\n" +
	"/refresh - Refetch league data\n" +
	"/top <position> [all|week|start-end] - Top 10 players at a position\n" +
	"/week <n> - Actual vs projected points for a week\n" +
	"/team <team> - A team's points by week\n" +
	"/digest - Summary of the latest completed week"

// Service is satisfied by *service.DashboardService.
type Service interface {
	Tables(ctx context.Context) (*models.LeagueTables, error)
	Refresh(ctx context.Context, sessionID string) (models.Session, error)
	TopPlayers(ctx context.Context, position string, scope models.WeekScope, startWeek, endWeek int) (string, error)
	WeekSummary(ctx context.Context, week int) (string, error)
	Digest(ctx context.Context) (string, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := update.Message.CommandArguments()
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to the fantasy dashboard bot! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "refresh":
		h.handleRefresh(ctx, &msg, update.Message.Chat.ID)
	case "top":
		h.handleTop(ctx, &msg, args)
	case "week":
		h.handleWeek(ctx, &msg, args)
	case "team":
		h.handleTeam(ctx, &msg, args)
	case "digest":
		h.handleDigest(ctx, &msg)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleRefresh(ctx context.Context, msg *tgbotapi.MessageConfig, chatID int64) {
	sess, err := h.svc.Refresh(ctx, "telegram:"+strconv.FormatInt(chatID, 10))
	if err != nil {
		msg.Text = fmt.Sprintf("Error refreshing data: %v", err)
		return
	}
	msg.Text = fmt.Sprintf("🔄 Data will be refetched on next use (refresh #%d).", sess.Refreshes)
}

func (h *Handler) handleTop(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		msg.Text = "Please provide a position. Usage: /top <position> [all|week|start-end]"
		return
	}

	scope, start, end := models.AllWeeks(), 0, 0
	if len(fields) == 2 {
		var err error
		if scope, start, end, err = parseTopWeeks(fields[1]); err != nil {
			msg.Text = fmt.Sprintf("Invalid week: %s", fields[1])
			return
		}
	}

	tables, err := h.svc.Tables(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching league data: %v", err)
		return
	}
	position := resolvePosition(fields[0], present.PositionOptions(tables.Players))

	report, err := h.svc.TopPlayers(ctx, position, scope, start, end)
	if err != nil {
		msg.Text = fmt.Sprintf("Error ranking players: %v", err)
		return
	}
	msg.Text = report
}

func (h *Handler) handleWeek(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	week, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		msg.Text = "Please provide a week number. Usage: /week <n>"
		return
	}
	report, err := h.svc.WeekSummary(ctx, week)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching week %d: %v", week, err)
		return
	}
	msg.Text = report
}

func (h *Handler) handleTeam(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if strings.TrimSpace(args) == "" {
		msg.Text = "Please provide a team name. Usage: /team <team name>"
		return
	}
	tables, err := h.svc.Tables(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching league data: %v", err)
		return
	}

	resolved, _ := present.ResolveTeams([]string{args}, present.TeamOptions(tables.Teams))
	if len(resolved) == 0 {
		msg.Text = fmt.Sprintf("Team '%s' not found.", args)
		return
	}
	team := resolved[0]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s*\n\n", team))
	for _, r := range tables.Teams {
		if r.Team != team {
			continue
		}
		sb.WriteString(fmt.Sprintf("Week %d: %.2f (proj %.2f, %+.2f)\n", r.Week, r.ActualPoints, r.ProjectedPoints, r.Difference()))
	}
	msg.Text = sb.String()
}

func (h *Handler) handleDigest(ctx context.Context, msg *tgbotapi.MessageConfig) {
	digest, err := h.svc.Digest(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error generating digest: %v", err)
		return
	}
	msg.Text = digest
}

// parseTopWeeks reads "all", a single week or an inclusive "start-end" range.
func parseTopWeeks(arg string) (models.WeekScope, int, int, error) {
	from, to, isRange := strings.Cut(arg, "-")
	if !isRange {
		scope, err := models.ParseWeekScope(arg)
		if err != nil || scope.Kind == models.ScopeRange {
			return models.WeekScope{}, 0, 0, fmt.Errorf("invalid week %q", arg)
		}
		return scope, 0, 0, nil
	}

	start, err := strconv.Atoi(from)
	if err != nil {
		return models.WeekScope{}, 0, 0, fmt.Errorf("invalid start week %q", from)
	}
	end, err := strconv.Atoi(to)
	if err != nil {
		return models.WeekScope{}, 0, 0, fmt.Errorf("invalid end week %q", to)
	}
	return models.SelectedRange(), start, end, nil
}

// resolvePosition maps loose input ("dst", "def") onto a known position label.
// Unknown input is returned unchanged so the ranking reports no data for it.
func resolvePosition(input string, positions []string) string {
	for _, p := range positions {
		if strings.EqualFold(p, input) {
			return p
		}
	}

	normalized := strings.ReplaceAll(input, "/", "")
	ranks := fuzzy.RankFindNormalizedFold(normalized, positions)
	if len(ranks) == 0 {
		return input
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
