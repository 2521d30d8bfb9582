package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/export"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// DashboardHandler serves the ticket dashboard endpoints.
type DashboardHandler struct {
	service        *service.DashboardService
	metrics        *observability.Metrics
	exportFilename string
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService, metrics *observability.Metrics, exportFilename string) *DashboardHandler {
	if exportFilename == "" {
		exportFilename = export.DefaultFilename
	}
	return &DashboardHandler{service: dashboardService, metrics: metrics, exportFilename: exportFilename}
}

// Overview GET /api/overview.
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	state := h.service.Current()
	resp := dto.OverviewResponse{
		Total:         len(state.Tickets),
		Loading:       !state.Loaded,
		Source:        state.Source,
		Hash:          state.Hash,
		LoadError:     state.LoadError,
		Counts:        dto.NewCategoryCounts(state.Present),
		Options:       dto.NewCategoryOptions(state.Options),
		EscalationSet: domain.EscalationSet(),
	}
	if !state.LoadedAt.IsZero() {
		loadedAt := state.LoadedAt
		resp.LoadedAt = &loadedAt
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Chart GET /api/chart.
func (h *DashboardHandler) Chart(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Current().Chart()})
}

// ListTickets GET /api/tickets.
func (h *DashboardHandler) ListTickets(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	tickets := h.service.List(filter)
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Filter: dto.FilterResponse{
			Category:     filter.Category,
			EscalateOnly: filter.EscalateOnly,
			Query:        filter.Query,
		},
		Count:   len(tickets),
		Showing: showingCaption(filter.Category),
		Tickets: dto.NewTicketSummaries(tickets),
	}})
}

// ExportCSV GET /api/tickets/export.csv.
func (h *DashboardHandler) ExportCSV(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", h.exportFilename))
	return c.SendString(h.service.ExportCSV(filter))
}

// GetTicket GET /api/tickets/:id.
func (h *DashboardHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Ticket(ticketID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketDetailResponse{
		TicketSummary: dto.NewTicketSummary(ticket),
		Body:          ticket.Body(),
	}})
}

// TicketSummary GET /api/tickets/:id/summary returns plain text for the clipboard.
func (h *DashboardHandler) TicketSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(ticketID(c))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(summary)
}

// Resolve POST /api/tickets/:id/resolve.
func (h *DashboardHandler) Resolve(c *fiber.Ctx) error {
	ack, err := h.service.RequestResolve(c.UserContext(), ticketID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": ackResponse(ack)})
}

// AddNote POST /api/tickets/:id/notes.
func (h *DashboardHandler) AddNote(c *fiber.Ctx) error {
	var req dto.NoteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	ack, err := h.service.AddInternalNote(c.UserContext(), ticketID(c), req.Note)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": ackResponse(ack)})
}

// Reload POST /api/reload.
func (h *DashboardHandler) Reload(c *fiber.Ctx) error {
	state, err := h.service.Load(c.UserContext())
	if errors.Is(err, service.ErrLoadAbandoned) {
		return apperrors.NewUnavailable("ticket reload abandoned", err)
	}
	if err != nil {
		return apperrors.NewUnavailable("ticket source unavailable", err)
	}
	return c.JSON(fiber.Map{"data": dto.ReloadResponse{
		Total:    len(state.Tickets),
		Source:   state.Source,
		Hash:     state.Hash,
		LoadedAt: state.LoadedAt,
	}})
}

// Metrics GET /metrics.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}

func parseFilter(c *fiber.Ctx) (dashboard.FilterConfig, error) {
	var q dto.TicketListQuery
	if err := c.QueryParser(&q); err != nil {
		return dashboard.FilterConfig{}, apperrors.NewValidationError("invalid query", nil)
	}

	filter := dashboard.DefaultFilter()
	if category := strings.TrimSpace(q.Category); category != "" {
		filter.Category = category
	}
	if q.EscalateOnly != "" {
		escalateOnly, err := strconv.ParseBool(q.EscalateOnly)
		if err != nil {
			return dashboard.FilterConfig{}, apperrors.NewValidationError("escalate_only must be a boolean",
				map[string]any{"escalate_only": q.EscalateOnly})
		}
		filter.EscalateOnly = escalateOnly
	}
	filter.Query = q.Query
	return filter, nil
}

func showingCaption(category string) string {
	if category == domain.AllCategories {
		return "all categories"
	}
	return category
}

func ticketID(c *fiber.Ctx) domain.TicketID {
	return domain.TicketID(c.Params("id"))
}

func ackResponse(ack service.Acknowledgement) dto.AckResponse {
	return dto.AckResponse{
		AckID:    ack.ID,
		TicketID: ack.TicketID,
		Action:   ack.Action,
		Message:  ack.Message,
		Mock:     true,
	}
}
