//go:build !sqlite
// +build !sqlite

package statestore

import (
	"errors"

	logx "relwatch/pkg/logx"
)

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	_ = cfg
	_ = log
	return nil, errors.New("sqlite statestore not built: build with -tags sqlite")
}
