package services

import (
	"context"

	"reddrop/model"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const requestsCollection = "donationRequests"

type RequestService struct {
	client *firestore.Client
}

func NewRequestService(client *firestore.Client) *RequestService {
	return &RequestService{client: client}
}

func (s *RequestService) requests() *firestore.CollectionRef {
	return s.client.Collection(requestsCollection)
}

// Create persists a new donation request under a fresh uuid and returns it.
func (s *RequestService) Create(ctx context.Context, request model.DonationRequest) (string, error) {
	request.ID = uuid.New().String()
	if _, err := s.requests().Doc(request.ID).Create(ctx, request); err != nil {
		return "", err
	}
	return request.ID, nil
}

func (s *RequestService) Get(ctx context.Context, id string) (*model.DonationRequest, error) {
	doc, err := s.requests().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var request model.DonationRequest
	if err := doc.DataTo(&request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *RequestService) ListPending(ctx context.Context) ([]model.DonationRequest, error) {
	q := s.requests().Where("status", "==", model.StatusPending)
	return s.list(ctx, q)
}

func (s *RequestService) ListByRequester(ctx context.Context, email string) ([]model.DonationRequest, error) {
	q := s.requests().Where("requesterEmail", "==", email)
	return s.list(ctx, q)
}

func (s *RequestService) ListAll(ctx context.Context) ([]model.DonationRequest, error) {
	return s.list(ctx, s.requests().Query)
}

func (s *RequestService) list(ctx context.Context, q firestore.Query) ([]model.DonationRequest, error) {
	docs, err := q.OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	requests := make([]model.DonationRequest, 0, len(docs))
	for _, doc := range docs {
		var request model.DonationRequest
		if err := doc.DataTo(&request); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

// UpdateFields applies a partial update limited to the fields the caller
// passes; the controller enforces the allow-list.
func (s *RequestService) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	_, err := s.requests().Doc(id).Update(ctx, toUpdates(fields))
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// UpdateStatus sets the request status. The donor identity is written only
// when the transition carries one, leaving it untouched otherwise.
func (s *RequestService) UpdateStatus(ctx context.Context, id, requestStatus string, donor *model.Donor) error {
	updates := []firestore.Update{{Path: "status", Value: requestStatus}}
	if donor != nil {
		updates = append(updates, firestore.Update{Path: "donor", Value: donor})
	}
	_, err := s.requests().Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *RequestService) Delete(ctx context.Context, id string) error {
	_, err := s.requests().Doc(id).Delete(ctx)
	return err
}
