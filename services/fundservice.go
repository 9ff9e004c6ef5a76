package services

import (
	"context"

	"reddrop/model"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const fundsCollection = "funds"

type FundService struct {
	client *firestore.Client
}

func NewFundService(client *firestore.Client) *FundService {
	return &FundService{client: client}
}

func (s *FundService) funds() *firestore.CollectionRef {
	return s.client.Collection(fundsCollection)
}

func (s *FundService) FindByTransaction(ctx context.Context, transactionID string) (*model.Fund, error) {
	doc, err := s.funds().Doc(transactionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var fund model.Fund
	if err := doc.DataTo(&fund); err != nil {
		return nil, err
	}
	return &fund, nil
}

// Record inserts the fund keyed by its transaction id. A concurrent
// confirmation of the same session loses the Create and gets ErrDuplicate,
// which keeps recording at-most-once without handler-level locking.
func (s *FundService) Record(ctx context.Context, fund model.Fund) error {
	if _, err := s.funds().Doc(fund.TransactionID).Create(ctx, fund); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrDuplicate
		}
		return err
	}
	log.Info().Str("transactionId", fund.TransactionID).Float64("amount", fund.Amount).Msg("fund recorded")
	return nil
}

func (s *FundService) List(ctx context.Context) ([]model.Fund, error) {
	docs, err := s.funds().OrderBy("fundAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	funds := make([]model.Fund, 0, len(docs))
	for _, doc := range docs {
		var fund model.Fund
		if err := doc.DataTo(&fund); err != nil {
			return nil, err
		}
		funds = append(funds, fund)
	}
	return funds, nil
}

// Total sums every recorded fund. Full collection scan, acceptable at the
// expected scale.
func (s *FundService) Total(ctx context.Context) (float64, error) {
	docs, err := s.funds().Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, doc := range docs {
		var fund model.Fund
		if err := doc.DataTo(&fund); err != nil {
			return 0, err
		}
		total += fund.Amount
	}
	return total, nil
}
