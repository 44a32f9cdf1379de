package auth

import "errors"

// ErrUnknownPlan возвращается при попытке перейти на несуществующий план.
var ErrUnknownPlan = errors.New("unknown plan")
