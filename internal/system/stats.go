package system

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostReport is a snapshot of the machine a render ran on, attached to the
// run summary.
type HostReport struct {
	OS         string
	Platform   string
	CPUModel   string
	CPUCores   int
	TotalMemMB uint64
	UsedMemMB  uint64
}

// CollectHostReport gathers host facts. Probes that fail leave their fields
// empty instead of failing the whole report.
func CollectHostReport() HostReport {
	var r HostReport

	if info, err := host.Info(); err == nil {
		r.OS = info.OS
		r.Platform = fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		r.CPUModel = infos[0].ModelName
	}
	if count, err := cpu.Counts(true); err == nil {
		r.CPUCores = count
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		r.TotalMemMB = vm.Total / 1024 / 1024
		r.UsedMemMB = vm.Used / 1024 / 1024
	}

	return r
}

// String renders the report as a single log-friendly line.
func (r HostReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "os=%s", r.OS)
	if r.Platform != "" {
		fmt.Fprintf(&b, " platform=%q", r.Platform)
	}
	if r.CPUModel != "" {
		fmt.Fprintf(&b, " cpu=%q cores=%d", r.CPUModel, r.CPUCores)
	}
	if r.TotalMemMB > 0 {
		fmt.Fprintf(&b, " mem=%d/%dMB", r.UsedMemMB, r.TotalMemMB)
	}
	return b.String()
}
