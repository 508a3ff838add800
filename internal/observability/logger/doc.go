// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: Una sola instancia global inicializada con Init().
//   - Context Scoping: Cada request tiene su propio logger "scoped" con campos
//     adicionales (request_id, method, path, user_id) sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//   - Levels: debug, info, warn, error (configurable via LOG_LEVEL).
//
// # Usage
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "audiohub"})
//	defer logger.Sync()
//
// En handlers/services (con contexto):
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("social.login"))
//	log.Info("account linked", logger.UserID(id))
//
// Sin contexto (fallback a singleton):
//
//	logger.L().Info("server started")
package logger
