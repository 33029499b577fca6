package models

import "github.com/go-playground/validator/v10"

// validate caches struct metadata and is safe for concurrent use
var validate = validator.New()
