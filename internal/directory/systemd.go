package directory

import (
	"bufio"
	"os/exec"
	"strconv"
	"strings"

	"nucc.com/svc_lifecycle/pkg/types"
	"nucc.com/svc_lifecycle/pkg/utils"
)

// showProperties is the systemctl show property set a descriptor is built
// from.
const showProperties = "Id,Description,LoadState,ActiveState,UnitFileState,MainPID,Requires,Wants,RequiredBy,WantedBy"

// SystemdDirectory resolves service descriptors from systemd and issues
// start/stop commands through systemctl.
type SystemdDirectory struct{}

func NewSystemdDirectory() *SystemdDirectory {
	return &SystemdDirectory{}
}

// Resolve returns a fresh snapshot of the named service. Lookup is exact-name
// but case-insensitive; systemctl itself is case-sensitive, so a miss on the
// given spelling falls back to scanning the unit list.
func (sd *SystemdDirectory) Resolve(name string) (types.ServiceDescriptor, error) {
	unit := unitName(name)

	props, err := sd.show(unit)
	if err != nil || props["LoadState"] == "not-found" {
		canonical, found := sd.findUnitFold(unit)
		if !found {
			return types.ServiceDescriptor{}, &NotFoundError{Name: name}
		}
		unit = canonical
		if props, err = sd.show(unit); err != nil {
			return types.ServiceDescriptor{}, &NotFoundError{Name: name}
		}
	}
	if props["LoadState"] == "not-found" {
		return types.ServiceDescriptor{}, &NotFoundError{Name: name}
	}

	return descriptorFromProps(strings.TrimSuffix(unit, ".service"), props), nil
}

// StartService issues a start command. It returns as soon as the command is
// accepted; callers observe the resulting transition themselves.
func (sd *SystemdDirectory) StartService(name string) error {
	return exec.Command("systemctl", "start", "--no-block", unitName(name)).Run()
}

// StopService issues a graceful stop command without waiting for completion.
func (sd *SystemdDirectory) StopService(name string) error {
	return exec.Command("systemctl", "stop", "--no-block", unitName(name)).Run()
}

func (sd *SystemdDirectory) show(unit string) (map[string]string, error) {
	out, err := exec.Command("systemctl", "show", unit, "--property="+showProperties).Output()
	if err != nil {
		return nil, err
	}
	return parseShowOutput(string(out)), nil
}

// findUnitFold scans all service units for a case-insensitive match and
// returns the canonical unit name.
func (sd *SystemdDirectory) findUnitFold(unit string) (string, bool) {
	out, err := exec.Command("systemctl", "list-units", "--type=service", "--all", "--no-pager", "--plain", "--no-legend").Output()
	if err != nil {
		return "", false
	}

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if utils.SameServiceName(fields[0], unit) {
			return fields[0], true
		}
	}
	return "", false
}

func unitName(name string) string {
	if strings.HasSuffix(name, ".service") {
		return name
	}
	return name + ".service"
}

func parseShowOutput(out string) map[string]string {
	props := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), "=", 2)
		if len(parts) != 2 {
			continue
		}
		props[parts[0]] = parts[1]
	}
	return props
}

func descriptorFromProps(name string, props map[string]string) types.ServiceDescriptor {
	desc := types.ServiceDescriptor{
		Name:         name,
		DisplayName:  props["Description"],
		Status:       statusFromActiveState(props["ActiveState"]),
		StartType:    startTypeFromUnitFileState(props["UnitFileState"]),
		Dependencies: unitBaseNames(props["Requires"], props["Wants"]),
		Dependents:   unitBaseNames(props["RequiredBy"], props["WantedBy"]),
	}

	if pid, err := strconv.Atoi(props["MainPID"]); err == nil && pid > 0 {
		desc.PID = int32(pid)
	}

	return desc
}

func statusFromActiveState(state string) types.ServiceStatus {
	switch state {
	case "active":
		return types.StatusRunning
	case "activating":
		return types.StatusStartPending
	case "deactivating":
		return types.StatusStopPending
	case "reloading":
		return types.StatusContinuePending
	case "inactive", "failed":
		return types.StatusStopped
	default:
		return types.StatusUnknown
	}
}

// startTypeFromUnitFileState maps unit file states onto the three start
// types: enabled units start automatically, masked units may never start,
// everything else (disabled, static, linked...) is startable on demand.
func startTypeFromUnitFileState(state string) types.StartType {
	switch {
	case strings.HasPrefix(state, "enabled"):
		return types.StartAutomatic
	case strings.HasPrefix(state, "masked"):
		return types.StartDisabled
	default:
		return types.StartManual
	}
}

// unitBaseNames merges space-separated unit lists, keeping only .service
// units and stripping the suffix.
func unitBaseNames(lists ...string) []string {
	var names []string
	for _, list := range lists {
		for _, unit := range strings.Fields(list) {
			if strings.HasSuffix(unit, ".service") {
				names = append(names, strings.TrimSuffix(unit, ".service"))
			}
		}
	}
	return names
}

// IsSystemdAvailable reports whether systemctl is usable on this host.
func IsSystemdAvailable() bool {
	return exec.Command("systemctl", "--version").Run() == nil
}
