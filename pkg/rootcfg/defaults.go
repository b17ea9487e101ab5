package rootcfg

import "time"

// Defaults for the probe settings.
const (
	DefaultCommandTimeout = 5 * time.Second
	DefaultPackageListTTL = 30 * time.Second
	DefaultWhich          = "/system/xbin/which"
)

// Directories historically used to host su and busybox.
var defaultSuPaths = []string{
	"/data/local/",
	"/data/local/bin/",
	"/data/local/xbin/",
	"/sbin/",
	"/su/bin/",
	"/system/bin/",
	"/system/bin/.ext/",
	"/system/bin/failsafe/",
	"/system/sd/xbin/",
	"/system/usr/we-need-root/",
	"/system/xbin/",
	"/cache/",
	"/data/",
	"/dev/",
}

var defaultProtectedMountPoints = []string{
	"/system",
	"/system/bin",
	"/system/sbin",
	"/system/xbin",
	"/vendor/bin",
	"/sbin",
	"/etc",
}

var defaultRootManagementPackages = []string{
	"com.noshufou.android.su",
	"com.noshufou.android.su.elite",
	"eu.chainfire.supersu",
	"com.koushikdutta.superuser",
	"com.thirdparty.superuser",
	"com.yellowes.su",
	"com.topjohnwu.magisk",
	"com.kingroot.kinguser",
	"com.kingo.root",
	"com.smedialink.oneclickroot",
	"com.zhiqupk.root.global",
	"com.alephzain.framaroot",
}

var defaultRootCloakingPackages = []string{
	"com.devadvance.rootcloak",
	"com.devadvance.rootcloakplus",
	"de.robv.android.xposed.installer",
	"com.saurik.substrate",
	"com.zachspong.temprootremovejb",
	"com.amphoras.hidemyroot",
	"com.amphoras.hidemyrootadfree",
	"com.formyhm.hiderootPremium",
	"com.formyhm.hideroot",
}

var defaultDangerousPackages = []string{
	"com.koushikdutta.rommanager",
	"com.koushikdutta.rommanager.license",
	"com.dimonvideo.luckypatcher",
	"com.chelpus.lackypatch",
	"com.ramdroid.appquarantine",
	"com.ramdroid.appquarantinepro",
	"com.android.vending.billing.InAppBillingService.COIN",
	"com.android.vending.billing.InAppBillingService.LUCK",
	"com.chelpus.luckypatcher",
	"com.blackmartalpha",
	"org.blackmart.market",
	"com.allinone.free",
	"com.repodroid.app",
	"org.creeplays.hack",
	"com.baseappfull.fwd",
	"com.zmapp",
	"com.dv.marketmod.installer",
	"org.mobilism.android",
	"com.android.wp.net.log",
	"com.android.camera.update",
	"cc.madkite.freedom",
	"com.solohsu.android.edxp.manager",
	"org.meowcat.edxposed.manager",
	"com.xmodgame",
	"com.cih.game_cih",
	"com.charles.lpoqasert",
	"catch_.me_.if_.you_.can_",
}

// Default returns the compiled-in configuration. Every call returns a fresh
// copy so callers may modify it freely.
func Default() *Configuration {
	return &Configuration{
		SuPaths:              clone(defaultSuPaths),
		ProtectedMountPoints: clone(defaultProtectedMountPoints),
		DangerousProperties: map[string]string{
			"ro.debuggable": "1",
			"ro.secure":     "0",
		},
		Packages: PackageSets{
			RootManagement: clone(defaultRootManagementPackages),
			RootCloaking:   clone(defaultRootCloakingPackages),
			Dangerous:      clone(defaultDangerousPackages),
		},
		Commands: Commands{
			Properties:  []string{"getprop"},
			Mounts:      []string{"mount"},
			Which:       DefaultWhich,
			PackageList: []string{"pm", "list", "packages"},
		},
		CommandTimeout: DefaultCommandTimeout,
		PackageListTTL: DefaultPackageListTTL,
	}
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
