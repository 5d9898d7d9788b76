package firestore

import "github.com/cropai/cropai/pkg/domain/model"

var (
	ErrNotFound      = model.ErrNotFound
	ErrAlreadyExists = model.ErrAlreadyExists
)
