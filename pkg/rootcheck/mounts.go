package rootcheck

import "strings"

// MountEntry is one parsed line of mount output.
type MountEntry struct {
	Device     string
	MountPoint string
	FSType     string
	Options    []string
}

// ParseMountLine understands both the /proc/mounts layout
//
//	/dev/block/dm-0 /system ext4 ro,seclabel 0 0
//
// and the toybox mount layout used on newer devices
//
//	/dev/block/dm-0 on /system type ext4 (ro,seclabel)
//
// It returns false for lines with fewer than four fields.
func ParseMountLine(line string) (MountEntry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return MountEntry{}, false
	}

	if len(fields) >= 6 && fields[1] == "on" && fields[3] == "type" {
		return MountEntry{
			Device:     fields[0],
			MountPoint: fields[2],
			FSType:     fields[4],
			Options:    strings.Split(strings.Trim(fields[5], "()"), ","),
		}, true
	}

	return MountEntry{
		Device:     fields[0],
		MountPoint: fields[1],
		FSType:     fields[2],
		Options:    strings.Split(fields[3], ","),
	}, true
}

// Writable reports whether the options contain "rw", ignoring case.
func (m MountEntry) Writable() bool {
	for _, opt := range m.Options {
		if strings.EqualFold(opt, "rw") {
			return true
		}
	}
	return false
}
