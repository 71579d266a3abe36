package project

import "errors"

var (
	ErrNotFound  = errors.New("project not found")
	ErrEmptyName = errors.New("project name is empty")
)
