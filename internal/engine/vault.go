package engine

import (
	"context"
	"crypto/subtle"
	"strings"
)

// PINLength is the number of digits in a vault PIN.
const PINLength = 4

type AuthMode string

const (
	ModeUnlock   AuthMode = "unlock"
	ModeCreate   AuthMode = "create"
	ModeConfirm  AuthMode = "confirm"
	ModeRecovery AuthMode = "recovery"
	ModeClosed   AuthMode = "closed"
)

// RecoverySecrets are the answers that allow erasing a forgotten PIN.
// Recovery is disabled while either answer is empty.
type RecoverySecrets struct {
	BirthYear   string
	IndexNumber string
}

func (r RecoverySecrets) Configured() bool {
	return strings.TrimSpace(r.BirthYear) != "" && strings.TrimSpace(r.IndexNumber) != ""
}

type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a user-facing banner produced by a transition.
type Notice struct {
	Kind   NoticeKind
	Title  string
	Detail string
}

type AuthResult struct {
	Notice   *Notice
	Shake    bool
	Unlocked bool
}

// AuthFlow is the PIN dialog state machine guarding the Vault.
//
//	CREATE --4 digits--> CONFIRM --match--> CLOSED (unlocked)
//	   ^                    |
//	   +-----mismatch-------+
//	UNLOCK --match--> CLOSED (unlocked); mismatch stays in UNLOCK
//	UNLOCK --forgot--> RECOVERY --answers ok--> CREATE (PIN erased)
type AuthFlow struct {
	svc     *Service
	mode    AuthMode
	entry   []byte
	tempPIN string
	shaking bool
}

// OpenVault starts the dialog: CREATE when no PIN exists, UNLOCK otherwise.
func (s *Service) OpenVault() *AuthFlow {
	f := &AuthFlow{svc: s}
	switch {
	case s.session.Unlocked():
		f.mode = ModeClosed
	case s.HasPIN():
		f.mode = ModeUnlock
	default:
		f.mode = ModeCreate
	}
	return f
}

func (f *AuthFlow) Mode() AuthMode { return f.mode }
func (f *AuthFlow) EntryLen() int  { return len(f.entry) }
func (f *AuthFlow) Shaking() bool  { return f.shaking }
func (f *AuthFlow) StopShake()     { f.shaking = false }
func (f *AuthFlow) ClearEntry()    { f.entry = f.entry[:0] }
func (f *AuthFlow) Closed() bool   { return f.mode == ModeClosed }
func (f *AuthFlow) collecting() bool {
	return f.mode == ModeUnlock || f.mode == ModeCreate || f.mode == ModeConfirm
}

// PressDigit buffers one digit. Non-digits and a fifth digit are ignored.
func (f *AuthFlow) PressDigit(r rune) bool {
	if !f.collecting() || r < '0' || r > '9' || len(f.entry) >= PINLength {
		return false
	}
	f.entry = append(f.entry, byte(r))
	return true
}

// Type feeds every rune of s through PressDigit.
func (f *AuthFlow) Type(s string) {
	for _, r := range s {
		f.PressDigit(r)
	}
}

func (f *AuthFlow) Backspace() {
	if len(f.entry) > 0 {
		f.entry = f.entry[:len(f.entry)-1]
	}
}

// Submit runs the transition for the current mode. Entries shorter than
// PINLength are ignored. The returned error is only ever a PersistError;
// the transition has already happened in memory when it is returned.
func (f *AuthFlow) Submit(ctx context.Context) (AuthResult, error) {
	if !f.collecting() || len(f.entry) != PINLength {
		return AuthResult{}, nil
	}
	entry := string(f.entry)
	f.ClearEntry()

	switch f.mode {
	case ModeCreate:
		f.tempPIN = entry
		f.mode = ModeConfirm
		return AuthResult{Notice: &Notice{Kind: NoticeInfo, Title: "Confirm PIN", Detail: "Enter the same 4 digits again"}}, nil

	case ModeConfirm:
		if subtle.ConstantTimeCompare([]byte(entry), []byte(f.tempPIN)) != 1 {
			f.tempPIN = ""
			f.mode = ModeCreate
			f.svc.log.DebugContext(ctx, "vault pin confirmation mismatch")
			return AuthResult{Notice: &Notice{Kind: NoticeError, Title: "PINs do not match", Detail: "Start again with a new PIN"}}, nil
		}
		f.tempPIN = ""
		err := f.svc.setPIN(ctx, entry)
		if err != nil && !IsPersistError(err) {
			f.mode = ModeCreate
			return AuthResult{Notice: &Notice{Kind: NoticeError, Title: "Could not store PIN", Detail: err.Error()}}, nil
		}
		f.unlock(ctx)
		return AuthResult{Unlocked: true, Notice: &Notice{Kind: NoticeSuccess, Title: "Vault secured", Detail: "Welcome to The Vault"}}, err

	default: // ModeUnlock
		ok, legacy := f.svc.verifyPIN(entry)
		if !ok {
			f.shaking = true
			f.svc.log.DebugContext(ctx, "vault unlock rejected")
			return AuthResult{Shake: true, Notice: &Notice{Kind: NoticeError, Title: "Access Denied", Detail: "Invalid PIN. Please try again."}}, nil
		}
		var err error
		if legacy {
			err = f.svc.setPIN(ctx, entry)
		}
		f.unlock(ctx)
		return AuthResult{Unlocked: true, Notice: &Notice{Kind: NoticeSuccess, Title: "Vault Unlocked", Detail: "Welcome to The Vault"}}, err
	}
}

func (f *AuthFlow) unlock(ctx context.Context) {
	f.svc.session.unlock()
	f.mode = ModeClosed
	f.shaking = false
	f.svc.log.DebugContext(ctx, "vault unlocked")
}

// ForgotPIN switches UNLOCK to RECOVERY. It is refused in any other mode.
func (f *AuthFlow) ForgotPIN() bool {
	if f.mode != ModeUnlock {
		return false
	}
	f.ClearEntry()
	f.shaking = false
	f.mode = ModeRecovery
	return true
}

// CancelRecovery returns to UNLOCK.
func (f *AuthFlow) CancelRecovery() {
	if f.mode == ModeRecovery {
		f.mode = ModeUnlock
	}
}

// SubmitRecovery erases the stored PIN when both answers match and moves to
// CREATE. A wrong answer keeps the form open for another try.
func (f *AuthFlow) SubmitRecovery(ctx context.Context, birthYear string, indexNumber string) (AuthResult, error) {
	if f.mode != ModeRecovery {
		return AuthResult{}, nil
	}
	sec := f.svc.recovery
	if !sec.Configured() {
		return AuthResult{Notice: &Notice{Kind: NoticeError, Title: "Recovery unavailable", Detail: "No recovery answers are configured"}}, nil
	}
	yearOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(birthYear)), []byte(strings.TrimSpace(sec.BirthYear))) == 1
	indexOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(indexNumber)), []byte(strings.TrimSpace(sec.IndexNumber))) == 1
	if !yearOK || !indexOK {
		f.svc.log.DebugContext(ctx, "vault recovery rejected")
		return AuthResult{Notice: &Notice{Kind: NoticeError, Title: "Recovery failed", Detail: "Those answers do not match"}}, nil
	}

	err := f.svc.clearPIN(ctx)
	f.mode = ModeCreate
	f.tempPIN = ""
	f.ClearEntry()
	return AuthResult{Notice: &Notice{Kind: NoticeSuccess, Title: "PIN erased", Detail: "Create a new 4-digit PIN"}}, err
}
