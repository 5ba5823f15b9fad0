package audio_test

import (
	"testing"
	"time"

	"github.com/silverlode-studios/soundrig/pkg/audio"
)

func TestNewDilation_Identity(t *testing.T) {
	t.Parallel()
	d := audio.NewDilation()
	if d.Value != audio.DilationIdentity {
		t.Errorf("Value = %v, want %v", d.Value, audio.DilationIdentity)
	}
}

func TestDilation_Apply_ClampsNegative(t *testing.T) {
	t.Parallel()
	d := audio.NewDilation()
	update := audio.SetDilation("bullet_time", -0.5, audio.Tween{})
	d = d.Apply(update)
	if d.Value != 0 {
		t.Errorf("Value = %v, want 0", d.Value)
	}
	if d.Last.Reason != "bullet_time" {
		t.Errorf("Last.Reason = %v, want bullet_time", d.Last.Reason)
	}
}

func TestDilation_Apply_RecordsValue(t *testing.T) {
	t.Parallel()
	d := audio.NewDilation()
	d = d.Apply(audio.SetDilation("overclock", 2.0, audio.Tween{}))
	if d.Value != 2.0 {
		t.Errorf("Value = %v, want 2.0", d.Value)
	}
}

func TestUnsetDilation_TargetsIdentity(t *testing.T) {
	t.Parallel()
	update := audio.UnsetDilation("overclock", audio.Tween{})
	if update.Set {
		t.Error("Set = true, want false for an unset update")
	}
	if update.Value != audio.DilationIdentity {
		t.Errorf("Value = %v, want %v", update.Value, audio.DilationIdentity)
	}
}

func TestResolveCurve_UnnamedDegradesToEngineDefault(t *testing.T) {
	t.Parallel()
	engineDefault := audio.Tween{Duration: 500 * time.Millisecond, Easing: audio.Easing{Kind: audio.OutPowf, Value: 2}}
	got := audio.ResolveCurve(audio.Tween{}, engineDefault)
	if got != engineDefault {
		t.Errorf("ResolveCurve() = %+v, want engine default %+v", got, engineDefault)
	}
}

func TestResolveCurve_NamedCurvePassesThroughSanitized(t *testing.T) {
	t.Parallel()
	curve := audio.Tween{Duration: -1, Easing: audio.Easing{Kind: audio.Linear}}
	engineDefault := audio.Tween{Duration: time.Second}
	got := audio.ResolveCurve(curve, engineDefault)
	if got.Duration != 0 {
		t.Errorf("Duration = %v, want sanitized to 0", got.Duration)
	}
}
