package http

import (
	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/application"
	"github.com/inkinno/projects/internal/contracts"
	"github.com/inkinno/projects/internal/domain"
)

func toServiceResponse(svc domain.Service) contracts.ServiceResponse {
	return contracts.ServiceResponse{
		ID:        svc.ServiceID.String(),
		Name:      svc.Name,
		Emoji:     svc.Emoji,
		Order:     svc.Order,
		CreatedAt: svc.CreatedAt,
	}
}

func toServiceResponses(items []domain.Service) []contracts.ServiceResponse {
	out := make([]contracts.ServiceResponse, 0, len(items))
	for _, svc := range items {
		out = append(out, toServiceResponse(svc))
	}
	return out
}

func toEventResponse(ev domain.TimelineEvent) contracts.EventResponse {
	return contracts.EventResponse{
		ID:        ev.EventID.String(),
		ServiceID: ev.ServiceID.String(),
		Date:      ev.Date,
		Title:     ev.Title,
		Content:   ev.Content,
		Category:  ev.Category,
		Highlight: ev.Highlight,
		Reason:    ev.Reason,
		CreatedAt: ev.CreatedAt,
	}
}

func toEventResponses(items []domain.TimelineEvent) []contracts.EventResponse {
	out := make([]contracts.EventResponse, 0, len(items))
	for _, ev := range items {
		out = append(out, toEventResponse(ev))
	}
	return out
}

func toDeleteServiceResponse(res application.DeleteServiceResult) contracts.DeleteServiceResponse {
	return contracts.DeleteServiceResponse{
		ServiceID:         res.ServiceID.String(),
		DeletedEventIDs:   uuidStrings(res.DeletedEventIDs),
		SurvivingEventIDs: uuidStrings(res.SurvivingEventIDs),
	}
}

func toGridResponse(g application.Grid) contracts.GridResponse {
	out := contracts.GridResponse{
		Start:      g.Range.Start,
		End:        g.Range.End,
		Mode:       string(g.Mode),
		Order:      string(g.Order),
		Label:      g.Label,
		CurrentRow: g.CurrentRow,
		Services:   toServiceResponses(g.Services),
		Rows:       make([]contracts.GridRow, 0, len(g.Rows)),
	}
	for _, row := range g.Rows {
		cells := make([]contracts.GridCell, 0, len(row.Cells))
		for i, events := range row.Cells {
			cells = append(cells, contracts.GridCell{
				ServiceID: g.Services[i].ServiceID.String(),
				Events:    toEventResponses(events),
			})
		}
		out.Rows = append(out.Rows, contracts.GridRow{
			Key:   row.Key(),
			Label: row.Label,
			Start: domain.FormatDate(row.Start),
			End:   domain.FormatDate(row.End),
			Cells: cells,
		})
	}
	return out
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
