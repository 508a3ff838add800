package logger

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Field permite armar slices de campos sin importar zap.
type Field = zap.Field

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field { return zap.String("method", v) }
func Path(v string) zap.Field { return zap.String("path", v) }
func Status(v int) zap.Field { return zap.Int("status", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func Bytes(v int) zap.Field { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

func UserID(v int64) zap.Field { return zap.String("user_id", strconv.FormatInt(v, 10)) }
func AudioID(v int64) zap.Field { return zap.Int64("audio_id", v) }
func ExternalID(v string) zap.Field { return zap.String("external_id", v) }
func Provider(v string) zap.Field { return zap.String("provider", v) }

// Email crea un campo con el email enmascarado (dos caracteres + dominio).
func Email(v string) zap.Field { return zap.String("email_masked", MaskEmail(v)) }

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Layer(v string) zap.Field { return zap.String("layer", v) }
func Op(v string) zap.Field { return zap.String("op", v) }
func Err(err error) zap.Field { return zap.Error(err) }

// =================================================================================
// CAMPOS ESTÁNDAR - DATOS
// =================================================================================

func String(key, v string) zap.Field { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
func Int64(key string, v int64) zap.Field { return zap.Int64(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field { return zap.Any(key, v) }

// MaskEmail deja lo justo del email para correlacionar logs sin guardarlo completo.
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	switch {
	case len(email) < 3:
		return "***"
	case at < 2:
		return email[:2] + "***"
	default:
		return email[:2] + "***" + email[at:]
	}
}
