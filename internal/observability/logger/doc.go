// Package logger provee un logger zap singleton con helpers de contexto
// y campos estándar.
//
// Uso típico:
//
//	logger.Init(logger.Config{Env: "prod", Level: "info", ServiceName: "globyx-api"})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Signup"))
//	log.Info("user created", logger.UserID(id))
package logger
