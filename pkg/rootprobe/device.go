package rootprobe

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/host"
)

// DeviceInfo describes the host a report was produced on.
type DeviceInfo struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platformVersion"`
	KernelVersion   string `json:"kernelVersion"`
	KernelArch      string `json:"kernelArch"`
}

// Device collects host information. Partial data is not an error.
func (p *SystemProbe) Device(ctx context.Context) (*DeviceInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	info, err := host.InfoWithContext(ctx)
	if err != nil && info == nil {
		return nil, errors.Wrap(err, "reading host info")
	}

	return &DeviceInfo{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		KernelArch:      info.KernelArch,
	}, nil
}
