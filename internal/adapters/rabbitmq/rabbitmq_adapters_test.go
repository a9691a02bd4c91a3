package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Newichka/autoBro/internal/constants"
	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/contracts"
	"github.com/Newichka/autoBro/internal/core/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProcessUseCase struct {
	mock.Mock
}

func (m *mockProcessUseCase) Execute(ctx context.Context, sourceURL string, listings []domain.ParsedListing) error {
	args := m.Called(ctx, sourceURL, listings)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	args := m.Called(ctx, routingKey, msg)
	return args.Error(0)
}

func parsedCarDelivery(body string, traceID string) amqp.Delivery {
	headers := amqp.Table{
		constants.HeaderEventType:    contracts.ParsedCarEventType,
		constants.HeaderEventVersion: contracts.EventVersionV1,
	}
	if traceID != "" {
		headers[constants.HeaderTraceID] = traceID
	}
	return amqp.Delivery{Headers: headers, Body: []byte(body)}
}

func TestParsedCarConsumerAdapter_HandleMessage(t *testing.T) {
	const validBody = `{"sourceUrl": "https://auto.ru/cars/all", "listings": [{"make": " Kia ", "model": "Rio", "year": 2018}]}`

	tests := []struct {
		name     string
		delivery amqp.Delivery
		setup    func(uc *mockProcessUseCase)
		wantErr  bool
	}{
		{
			name:     "valid batch reaches use case with trace id",
			delivery: parsedCarDelivery(validBody, "trace-1"),
			setup: func(uc *mockProcessUseCase) {
				uc.On("Execute",
					mock.MatchedBy(func(ctx context.Context) bool { return contextkeys.TraceIDFromContext(ctx) == "trace-1" }),
					"https://auto.ru/cars/all",
					mock.MatchedBy(func(l []domain.ParsedListing) bool {
						return len(l) == 1 && l[0].Make == "Kia" && l[0].Year != nil && *l[0].Year == 2018
					}),
				).Return(nil).Once()
			},
		},
		{
			name:     "missing trace id gets generated",
			delivery: parsedCarDelivery(validBody, ""),
			setup: func(uc *mockProcessUseCase) {
				uc.On("Execute",
					mock.MatchedBy(func(ctx context.Context) bool { return contextkeys.TraceIDFromContext(ctx) != "" }),
					mock.Anything, mock.Anything,
				).Return(nil).Once()
			},
		},
		{
			name:     "schema violation rejected before use case",
			delivery: parsedCarDelivery(`{"listings": []}`, "t"),
			setup:    func(uc *mockProcessUseCase) {},
			wantErr:  true,
		},
		{
			name:     "unknown event type rejected",
			delivery: amqp.Delivery{Headers: amqp.Table{constants.HeaderEventType: "Other"}, Body: []byte(validBody)},
			setup:    func(uc *mockProcessUseCase) {},
			wantErr:  true,
		},
		{
			name:     "use case failure is returned for retry",
			delivery: parsedCarDelivery(validBody, "t"),
			setup: func(uc *mockProcessUseCase) {
				uc.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockProcessUseCase)
			tt.setup(uc)
			adapter := &ParsedCarConsumerAdapter{useCase: uc, logger: contextkeys.NoopLogger()}

			err := adapter.handleMessage(tt.delivery)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			uc.AssertExpectations(t)
		})
	}
}

func TestImportReporterAdapter_ReportImport(t *testing.T) {
	pub := new(mockPublisher)
	adapter, err := NewImportReporterAdapter(pub, constants.RoutingKeyImportResults)
	require.NoError(t, err)

	var sent amqp.Publishing
	pub.On("Publish", mock.Anything, constants.RoutingKeyImportResults, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(2).(amqp.Publishing) }).
		Return(nil).Once()

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-9")
	report := domain.ImportReport{
		SourceURL: "https://auto.ru/cars/all",
		Stats: domain.ImportStats{
			Received: 2, Created: 1, Failed: 1,
			CreatedIDs: []int64{11},
			Failures:   []domain.ImportFailure{{Index: 1, URL: "https://auto.ru/2", Reason: "year: required"}},
		},
	}
	require.NoError(t, adapter.ReportImport(ctx, report))
	pub.AssertExpectations(t)

	assert.Equal(t, "application/json", sent.ContentType)
	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)
	assert.Equal(t, "trace-9", sent.Headers[constants.HeaderTraceID])
	require.NoError(t, contracts.ValidateEvent(contracts.ImportReportEventType, contracts.EventVersionV1, sent.Body))

	var dto ImportReportDTO
	require.NoError(t, json.Unmarshal(sent.Body, &dto))
	assert.Equal(t, []int64{11}, dto.CreatedIDs)
	assert.Equal(t, "year: required", dto.Failures[0].Reason)
}

func TestImportReporterAdapter_PublishFailure(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("channel closed"))
	adapter, err := NewImportReporterAdapter(pub, "k")
	require.NoError(t, err)

	err = adapter.ReportImport(context.Background(), domain.ImportReport{})
	assert.ErrorContains(t, err, "channel closed")

	_, err = NewImportReporterAdapter(nil, "k")
	assert.Error(t, err)
}
