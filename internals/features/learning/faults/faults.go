// file: internals/features/learning/faults/faults.go
package faults

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

/* =========================================================
   TAKSONOMI KEGAGALAN DOMAIN
   Semua pelanggaran aturan di engine assessment dikembalikan
   sebagai salah satu sentinel di bawah (boleh di-wrap pakai
   fmt.Errorf("%w: ...")), lalu dipetakan ke HTTP di boundary
   controller via HTTPError.
========================================================= */

var (
	// Payload/config tidak valid (answer_config rusak, nilai manual out-of-range)
	ErrValidation = errors.New("validation error")

	// Start ditolak: belum enrolled / assessment belum publish / aturan retake
	ErrNotEligible = errors.New("not eligible")

	// Mutasi ke attempt yang sudah selesai / kadaluarsa
	ErrAttemptClosed = errors.New("attempt closed")

	// Kuota powerup per-assessment sudah habis
	ErrLimitExceeded = errors.New("limit exceeded")

	// Powerup tidak cocok dengan tipe assessment/soal
	ErrNotApplicable = errors.New("not applicable")

	// Duplikasi konkuren terdeteksi oleh locking/unique constraint
	ErrConflict = errors.New("conflict")

	// Row tidak ditemukan (dibedakan dari gorm.ErrRecordNotFound di boundary)
	ErrNotFound = errors.New("not found")
)

// HTTPError memetakan sentinel domain ke *fiber.Error.
// Error lain diteruskan apa adanya (controller fallback ke 500).
func HTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNotEligible):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, ErrAttemptClosed):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrLimitExceeded):
		return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
	case errors.Is(err, ErrNotApplicable):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}
