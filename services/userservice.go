package services

import (
	"context"

	"reddrop/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type UserService struct {
	client *firestore.Client
}

func NewUserService(client *firestore.Client) *UserService {
	return &UserService{client: client}
}

func (s *UserService) users() *firestore.CollectionRef {
	return s.client.Collection(usersCollection)
}

// List returns all users, newest first, optionally narrowed to an exact
// email match.
func (s *UserService) List(ctx context.Context, email string) ([]model.User, error) {
	q := s.users().Query
	if email != "" {
		q = q.Where("email", "==", email)
	}
	docs, err := q.OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodeUsers(docs)
}

// ListDonors returns users with role donor, AND-combined with any of the
// exact-match search filters.
func (s *UserService) ListDonors(ctx context.Context, bloodGroup, district, upazila string) ([]model.User, error) {
	q := s.users().Where("role", "==", model.RoleDonor)
	if bloodGroup != "" {
		q = q.Where("bloodGroup", "==", bloodGroup)
	}
	if district != "" {
		q = q.Where("district", "==", district)
	}
	if upazila != "" {
		q = q.Where("upazila", "==", upazila)
	}
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodeUsers(docs)
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	doc, err := s.users().Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) RoleByEmail(ctx context.Context, email string) (string, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// Create inserts a new user keyed by email. ErrDuplicate is returned when
// the email is already registered.
func (s *UserService) Create(ctx context.Context, user model.User) error {
	_, err := s.users().Doc(user.Email).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateProfile applies a partial update to the caller's own record and
// returns the updated user. ErrNotFound when no record exists.
func (s *UserService) UpdateProfile(ctx context.Context, email string, fields map[string]interface{}) (*model.User, error) {
	if _, err := s.users().Doc(email).Update(ctx, toUpdates(fields)); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.FindByEmail(ctx, email)
}

// SetStatus updates the status of the user keyed by id (the email) and
// returns the updated record.
func (s *UserService) SetStatus(ctx context.Context, id, userStatus string) (*model.User, error) {
	return s.updateField(ctx, id, "status", userStatus)
}

// SetRole updates the role of the user keyed by id and returns the updated
// record.
func (s *UserService) SetRole(ctx context.Context, id, role string) (*model.User, error) {
	return s.updateField(ctx, id, "role", role)
}

func (s *UserService) updateField(ctx context.Context, id, path string, value interface{}) (*model.User, error) {
	_, err := s.users().Doc(id).Update(ctx, []firestore.Update{{Path: path, Value: value}})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.FindByEmail(ctx, id)
}

func decodeUsers(docs []*firestore.DocumentSnapshot) ([]model.User, error) {
	users := make([]model.User, 0, len(docs))
	for _, doc := range docs {
		var user model.User
		if err := doc.DataTo(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func toUpdates(fields map[string]interface{}) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	return updates
}
