package services

import (
	"fmt"
	"math/rand"
	"time"
)

type CaptchaService struct {
	rnd *rand.Rand
}

func NewCaptchaService() *CaptchaService {
	return &CaptchaService{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// MathChallenge returns a display string (e.g. "7 + 12") and its integer
// answer. The answer goes into the session, the question onto the form.
func (s *CaptchaService) MathChallenge() (string, int) {
	a := s.rnd.Intn(20) + 1
	b := s.rnd.Intn(10) + 1

	if s.rnd.Intn(2) == 0 {
		return fmt.Sprintf("%d + %d", a, b), a + b
	}
	if a < b {
		a, b = b, a
	}
	return fmt.Sprintf("%d - %d", a, b), a - b
}
