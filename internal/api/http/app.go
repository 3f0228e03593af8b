package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AppOptions configures the fiber instance.
type AppOptions struct {
	Name           string
	RequestTimeout time.Duration
	BodyLimit      int
}

// NewApp builds a fiber app with the JSON codec, error rendering and global
// middlewares installed. Routes are registered separately.
func NewApp(opts AppOptions, logger *zap.Logger) *fiber.App {
	bodyLimit := opts.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 1 << 20
	}
	app := fiber.New(fiber.Config{
		AppName:               opts.Name,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          errorHandler(logger),
	})
	RegisterMiddlewares(app, logger, opts.RequestTimeout)
	return app
}
