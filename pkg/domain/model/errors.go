package model

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is wrapped by every repository backend when a key does not exist
var ErrNotFound = goerr.New("not found")

// ErrAlreadyExists is returned when creating an entity whose ID is taken
var ErrAlreadyExists = goerr.New("already exists")
