// Package autoload initializes the global zerolog logger from the
// environment as a side effect of being imported.
package autoload

import (
	configx "github.com/smartshelf/concierge/pkg/config"
	logx "github.com/smartshelf/concierge/pkg/logger"
)

func init() {
	conf := configx.MustNew[logx.Config]("LOG")
	logx.Init(*conf)
}
