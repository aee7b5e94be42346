package gateway

import (
	"context"
	"time"

	"github.com/franqnet/console-sync/internal/core/domain"
)

const communicationsPath = "/v1/communications"

// CommunicationGateway lists outbound communication logs. Logs are
// append-only on the remote side; updated_at matches sent_at for every row.
type CommunicationGateway struct {
	client *Client
}

func NewCommunicationGateway(client *Client) *CommunicationGateway {
	return &CommunicationGateway{client: client}
}

type wireCommunication struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sent_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w wireCommunication) toDomain() domain.CommunicationLog {
	return domain.CommunicationLog{
		ID:        w.ID,
		Channel:   w.Channel,
		Recipient: w.Recipient,
		Subject:   w.Subject,
		Content:   w.Content,
		SentAt:    w.SentAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func mapCommunications(wire []wireCommunication) []domain.CommunicationLog {
	out := make([]domain.CommunicationLog, len(wire))
	for i, w := range wire {
		out[i] = w.toDomain()
	}
	return out
}

func (g *CommunicationGateway) ListAll(ctx context.Context, pageSize, offset int) ([]domain.CommunicationLog, bool, error) {
	var wire []wireCommunication
	hasMore, err := g.client.listPage(ctx, communicationsPath, pageSize, offset, &wire)
	if err != nil {
		return nil, false, err
	}
	return mapCommunications(wire), hasMore, nil
}

func (g *CommunicationGateway) ListSince(ctx context.Context, since time.Time) ([]domain.CommunicationLog, error) {
	var wire []wireCommunication
	if err := g.client.listSince(ctx, communicationsPath, since, &wire); err != nil {
		return nil, err
	}
	return mapCommunications(wire), nil
}
