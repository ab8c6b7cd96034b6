package main

import (
	"strings"
	"sync"

	"github.com/opd-ai/scoremix/factory"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *factory.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*factory.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = factory.LoadConfig(path)
	})
	return c.config, c.configErr
}
