package eyelink

// resolveEye determines which eye's data stream to trust, based on the
// tracker's report. The result is cached for the session's lifetime and
// recorded in the data file as the "eye_used" variable.
//
// Policy: right stays right; left and binocular resolve to left (the
// documented tie-break for binocular tracking). Any other report fails
// with ErrEyeUnavailable.
func (s *Session) resolveEye() error {
	if s.eyeResolved {
		return nil
	}

	switch eye := s.link.EyeAvailable(); eye {
	case RightEye:
		s.eye = RightEye
	case LeftEye, Binocular:
		s.eye = LeftEye
	default:
		return ErrEyeUnavailable
	}

	s.eyeResolved = true
	if err := s.LogVariable("eye_used", s.eye.String()); err != nil {
		s.logger.Warn("failed to record eye_used variable", "error", err)
	}

	s.logger.Info("eye selection resolved", "eye_used", s.eye.String())

	return nil
}

// Eye returns the selected eye stream and whether it has been resolved yet.
// Resolution happens lazily on first sample or event access.
func (s *Session) Eye() (Eye, bool) {
	return s.eye, s.eyeResolved
}
