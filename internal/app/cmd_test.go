package app

import (
	"testing"
)

func TestParseCommand_DefaultsToRun(t *testing.T) {
	cmd := ParseCommand([]string{})
	if cmd != CommandRun {
		t.Errorf("ParseCommand([]) = %q, want %q", cmd, CommandRun)
	}
}

func TestParseCommand_Run(t *testing.T) {
	cmd := ParseCommand([]string{"run"})
	if cmd != CommandRun {
		t.Errorf("ParseCommand([run]) = %q, want %q", cmd, CommandRun)
	}
}

func TestParseCommand_Migrate(t *testing.T) {
	cmd := ParseCommand([]string{"migrate"})
	if cmd != CommandMigrate {
		t.Errorf("ParseCommand([migrate]) = %q, want %q", cmd, CommandMigrate)
	}
}

func TestParseCommand_Healthcheck(t *testing.T) {
	cmd := ParseCommand([]string{"healthcheck"})
	if cmd != CommandHealthcheck {
		t.Errorf("ParseCommand([healthcheck]) = %q, want %q", cmd, CommandHealthcheck)
	}
}

func TestParseCommand_UnknownDefaultsToRun(t *testing.T) {
	cmd := ParseCommand([]string{"unknown"})
	if cmd != CommandRun {
		t.Errorf("ParseCommand([unknown]) = %q, want %q", cmd, CommandRun)
	}
}

func TestParseCommand_IgnoresExtraArgs(t *testing.T) {
	cmd := ParseCommand([]string{"migrate", "--flag", "value"})
	if cmd != CommandMigrate {
		t.Errorf("ParseCommand([migrate --flag value]) = %q, want %q", cmd, CommandMigrate)
	}
}
