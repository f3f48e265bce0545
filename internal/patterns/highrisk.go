package patterns

// ScanHighRisk walks the combined high-risk corpus in family order and
// returns the first match. Family order is fixed: reverse shells, data
// exfiltration, crypto miners, obfuscated execution, destructive
// operations, self-protection.
func ScanHighRisk(command string) ScanResult {
	for _, corpus := range [][]Pattern{
		reverseShellPatterns,
		dataExfilPatterns,
		cryptoMinerPatterns,
		obfuscatedExecPatterns,
		destructivePatterns,
		selfProtectionPatterns,
	} {
		if r := scan(corpus, command); r.Detected {
			return r
		}
	}
	return ScanResult{}
}

// ---------------------------------------------------------------------------
// Reverse shells
// ---------------------------------------------------------------------------

var reverseShellPatterns = []Pattern{
	{
		Name:        "reverse_shell_dev_tcp",
		Regex:       mustCompile(`(?i)\b(bash|sh|zsh|ksh)\b[^|;&]*-i[^|;&]*>\s*&\s*/dev/tcp/`),
		Severity:    SeverityCritical,
		Description: "Interactive shell redirected to /dev/tcp",
		Risk:        "Opens a reverse shell giving an attacker full remote control of this machine.",
		LegitimateUses: []string{
			"Connectivity testing in controlled lab environments",
		},
	},
	{
		Name:        "reverse_shell_dev_tcp_redirect",
		Regex:       mustCompile(`(?i)/dev/tcp/[0-9a-z._-]+/\d+\s*0?>?\s*&\s*1`),
		Severity:    SeverityCritical,
		Description: "Shell I/O duplicated over a /dev/tcp socket",
		Risk:        "Wires the shell's input and output to a remote host, handing over the session.",
		LegitimateUses: []string{
			"Ad-hoc port reachability checks",
		},
	},
	{
		Name:        "reverse_shell_nc_exec",
		Regex:       mustCompile(`(?i)\b(nc|ncat|netcat)\b[^|;&]*\s-[a-z]*e[a-z]*\s+\S*(sh|bash|cmd|powershell)`),
		Severity:    SeverityCritical,
		Description: "netcat executing a shell on connect",
		Risk:        "Binds or connects a shell through netcat, granting remote command execution.",
		LegitimateUses: []string{
			"Authorized penetration testing",
		},
	},
	{
		Name:        "reverse_shell_mkfifo_nc",
		Regex:       mustCompile(`(?i)\bmkfifo\b[^;&]*[;&|][^;&]*\b(nc|ncat)\b[^;&]*\d{2,5}`),
		Severity:    SeverityCritical,
		Description: "FIFO-based netcat shell relay",
		Risk:        "Builds a reverse shell out of a named pipe and netcat even when nc lacks -e.",
		LegitimateUses: []string{
			"Authorized penetration testing",
		},
	},
	{
		Name:        "reverse_shell_socat",
		Regex:       mustCompile(`(?i)\bsocat\b[^|;&]*\btcp[^ ]*:[0-9a-z._-]+:\d+[^|;&]*\bexec\s*:`),
		Severity:    SeverityCritical,
		Description: "socat TCP connection wired to exec",
		Risk:        "Connects a local process to a remote socket, typically to hand over a shell.",
		LegitimateUses: []string{
			"Serial/socket bridging in embedded development",
		},
	},
	{
		Name:        "reverse_shell_python",
		Regex:       mustCompile(`(?i)\bpython[23]?\b[^;&]*-c[^;&]*\bsocket\b[^;&]*\b(subprocess|pty|os\.system|os\.dup2)`),
		Severity:    SeverityCritical,
		Description: "Python one-liner joining a socket to a subprocess",
		Risk:        "Spawns a shell whose stdio is attached to an attacker-controlled socket.",
		LegitimateUses: []string{
			"Network tooling development",
		},
	},
	{
		Name:        "reverse_shell_perl",
		Regex:       mustCompile(`(?i)\bperl\b[^;&]*-e[^;&]*\bsocket\b[^;&]*\b(exec|system|open)\b`),
		Severity:    SeverityCritical,
		Description: "Perl one-liner opening a socket-backed shell",
		Risk:        "Classic Perl reverse shell handing the terminal to a remote listener.",
		LegitimateUses: []string{
			"Authorized penetration testing",
		},
	},
	{
		Name:        "reverse_shell_ruby",
		Regex:       mustCompile(`(?i)\bruby\b[^;&]*-rsocket[^;&]*-e`),
		Severity:    SeverityCritical,
		Description: "Ruby socket one-liner",
		Risk:        "Ruby reverse shell template connecting back to a remote host.",
		LegitimateUses: []string{
			"Authorized penetration testing",
		},
	},
	{
		Name:        "reverse_shell_php",
		Regex:       mustCompile(`(?i)\bphp\b[^;&]*-r[^;&]*\bfsockopen\b`),
		Severity:    SeverityCritical,
		Description: "PHP fsockopen one-liner",
		Risk:        "PHP reverse shell template connecting back to a remote host.",
		LegitimateUses: []string{
			"Authorized penetration testing",
		},
	},
	{
		Name:        "reverse_shell_telnet_pipe",
		Regex:       mustCompile(`(?i)\btelnet\b\s+[0-9a-z._-]+\s+\d+\s*\|\s*(bash|sh)\b`),
		Severity:    SeverityCritical,
		Description: "telnet piped into a shell",
		Risk:        "Executes whatever a remote telnet endpoint sends, as this user.",
		LegitimateUses: []string{
			"Legacy device administration",
		},
	},
}

// ---------------------------------------------------------------------------
// Data exfiltration
// ---------------------------------------------------------------------------

var dataExfilPatterns = []Pattern{
	{
		Name:        "exfil_secret_variable",
		Regex:       mustCompile(`(?i)\b(curl|wget|nc|ncat)\b[^|;&]*\$[{(]?[a-z_]*(key|secret|token|password|credential)`),
		Severity:    SeverityCritical,
		Description: "Network tool sending a secret-bearing variable",
		Risk:        "Transmits an API key, token, or password to a remote host.",
		LegitimateUses: []string{
			"Authenticated API calls using a deliberately exported token",
		},
	},
	{
		Name:        "exfil_env_pipe",
		Regex:       mustCompile(`(?i)\benv\b\s*\|\s*(curl|wget|nc|ncat)\b`),
		Severity:    SeverityCritical,
		Description: "Full environment piped to a network tool",
		Risk:        "Ships every environment variable, including credentials, off the machine.",
		LegitimateUses: []string{
			"Debugging with a trusted internal collector",
		},
	},
	{
		Name:        "exfil_printenv_pipe",
		Regex:       mustCompile(`(?i)\bprintenv\b[^|;&]*\|\s*(curl|nc|wget)\b`),
		Severity:    SeverityCritical,
		Description: "printenv piped to a network tool",
		Risk:        "Ships environment variables, including credentials, off the machine.",
		LegitimateUses: []string{
			"Debugging with a trusted internal collector",
		},
	},
	{
		Name:        "exfil_private_key_pipe",
		Regex:       mustCompile(`(?i)\bcat\b[^|;&]*(id_rsa|id_ed25519|id_ecdsa|id_dsa|\.pem\b|private[_-]?key)[^|;&]*\|\s*(curl|nc|wget)\b`),
		Severity:    SeverityCritical,
		Description: "Private key piped to a network tool",
		Risk:        "Uploads an SSH or TLS private key, enabling impersonation of this machine or user.",
		LegitimateUses: []string{
			"Key migration through an internal vault API",
		},
	},
	{
		Name:        "exfil_dns_tunnel",
		Regex:       mustCompile(`(?i)\b(base64|xxd|od)\b[^|;&]*\|\s*(xargs\s+)?(dig|nslookup|host)\b`),
		Severity:    SeverityCritical,
		Description: "Encoded data piped into DNS lookups",
		Risk:        "Smuggles data out through DNS queries, bypassing most egress controls.",
		LegitimateUses: []string{
			"DNS tooling development",
		},
	},
	{
		Name:        "exfil_scp_outbound",
		Regex:       mustCompile(`(?i)\bscp\b\s+(-[a-z0-9]+\s+)*[^-\s][^\s]*\s+[a-z0-9._-]+@[0-9a-z._-]+:`),
		Severity:    SeverityHigh,
		Description: "scp upload to a remote host",
		Risk:        "Copies local files to a remote machine outside this workspace.",
		LegitimateUses: []string{
			"Deploying artifacts to servers you administer",
		},
	},
	{
		Name:        "exfil_rsync_outbound",
		Regex:       mustCompile(`(?i)\brsync\b[^|;&]*\s[a-z0-9._-]+@[0-9a-z._-]+:`),
		Severity:    SeverityHigh,
		Description: "rsync transfer to a remote host",
		Risk:        "Synchronizes local files to a remote machine outside this workspace.",
		LegitimateUses: []string{
			"Deploying artifacts to servers you administer",
		},
	},
}

// ---------------------------------------------------------------------------
// Crypto miners
// ---------------------------------------------------------------------------

var cryptoMinerPatterns = []Pattern{
	{
		Name:        "miner_known_binary",
		Regex:       mustCompile(`(?i)\b(xmrig|minerd|cpuminer|cgminer|bfgminer|ethminer|nbminer|t-rex|lolminer)\b`),
		Severity:    SeverityHigh,
		Description: "Known cryptocurrency miner binary",
		Risk:        "Consumes this machine's CPU/GPU to mine cryptocurrency for someone else.",
		LegitimateUses: []string{
			"Intentional mining on hardware you own",
		},
	},
	{
		Name:        "miner_stratum_url",
		Regex:       mustCompile(`(?i)stratum\+(tcp|ssl)://`),
		Severity:    SeverityHigh,
		Description: "Stratum mining-pool protocol URL",
		Risk:        "Connects to a mining pool; almost never appears in development work.",
		LegitimateUses: []string{
			"Intentional mining on hardware you own",
		},
	},
	{
		Name:        "miner_pool_host",
		Regex:       mustCompile(`(?i)\b(minexmr|supportxmr|nanopool\.org|f2pool\.com|ethermine\.org)\b`),
		Severity:    SeverityHigh,
		Description: "Known mining-pool hostname",
		Risk:        "Contacts a public mining pool from this machine.",
		LegitimateUses: []string{
			"Intentional mining on hardware you own",
		},
	},
	{
		Name:        "miner_download_and_run",
		Regex:       mustCompile(`(?i)\b(curl|wget)\b[^|;&]*miner[^|;&]*\|\s*(sh|bash)\b`),
		Severity:    SeverityHigh,
		Description: "Miner installer piped into a shell",
		Risk:        "Downloads and immediately runs mining software without inspection.",
		LegitimateUses: []string{
			"Intentional mining on hardware you own",
		},
	},
}

// ---------------------------------------------------------------------------
// Obfuscated execution
// ---------------------------------------------------------------------------

var obfuscatedExecPatterns = []Pattern{
	{
		Name:        "obfuscated_base64_shell",
		Regex:       mustCompile(`(?i)\bbase64\b[^|;&]*(-d|--decode)[^|;&]*\|\s*(bash|sh|zsh|python[23]?|perl|ruby)\b`),
		Severity:    SeverityHigh,
		Description: "base64-decoded payload piped into an interpreter",
		Risk:        "Executes code that was deliberately hidden from review behind encoding.",
		LegitimateUses: []string{
			"Bootstrapping scripts distributed as base64 blobs",
		},
	},
	{
		Name:        "obfuscated_echo_base64",
		Regex:       mustCompile(`(?i)\becho\b\s+["']?[a-z0-9+/]{24,}={0,2}["']?\s*\|\s*base64\b[^|;&]*(-d|--decode)`),
		Severity:    SeverityHigh,
		Description: "Inline base64 blob being decoded",
		Risk:        "Decodes a hidden payload inline; the next pipe stage usually executes it.",
		LegitimateUses: []string{
			"Decoding a config blob for inspection",
		},
	},
	{
		Name:        "obfuscated_xxd_shell",
		Regex:       mustCompile(`(?i)\bxxd\s+-r\b[^|;&]*\|\s*(bash|sh)\b`),
		Severity:    SeverityHigh,
		Description: "Hex-decoded payload piped into a shell",
		Risk:        "Executes code hidden behind hex encoding.",
		LegitimateUses: []string{
			"Binary patching workflows",
		},
	},
	{
		Name:        "obfuscated_hex_escape_shell",
		Regex:       mustCompile(`(?i)(printf|echo\s+-e)\s+["']?(\\\\?x[0-9a-f]{2}){4,}[^|;&]*\|\s*(sh|bash)\b`),
		Severity:    SeverityHigh,
		Description: "Hex escape sequence piped into a shell",
		Risk:        "Executes code assembled from escape sequences to dodge pattern review.",
		LegitimateUses: []string{
			"Terminal escape-code experiments",
		},
	},
	{
		Name:        "obfuscated_python_exec",
		Regex:       mustCompile(`(?i)\bpython[23]?\b[^;&]*-c[^;&]*\b(exec|compile)\s*\([^)]*(base64|codecs|__import__|decode)`),
		Severity:    SeverityHigh,
		Description: "Python exec over decoded data",
		Risk:        "Runs dynamically decoded Python whose intent cannot be reviewed.",
		LegitimateUses: []string{
			"Code-generation tooling",
		},
	},
	{
		Name:        "obfuscated_eval_substitution",
		Regex:       mustCompile(`(?i)\beval\b[^;&]*\$\(`),
		Severity:    SeverityHigh,
		Description: "eval over a command substitution",
		Risk:        "Executes whatever a nested command prints, hiding the real action.",
		LegitimateUses: []string{
			"Shell environment managers (nvm, rbenv, direnv)",
		},
	},
	{
		Name:        "obfuscated_ifs_abuse",
		Regex:       mustCompile(`\$\{IFS\}`),
		Severity:    SeverityMedium,
		Description: "IFS substitution used to split words",
		Risk:        "Disguises command arguments to evade keyword filters.",
		LegitimateUses: []string{
			"Unusual but valid shell scripting",
		},
	},
}

// ---------------------------------------------------------------------------
// Destructive operations
// ---------------------------------------------------------------------------

var destructivePatterns = []Pattern{
	{
		Name:        "destructive_rm_root",
		Regex:       mustCompile(`(?i)\brm\b\s+(-[a-z-]+\s+)*-([a-z]*r[a-z]*f|[a-z]*f[a-z]*r)[a-z]*\s+(--no-preserve-root\s+)?/+\s*($|[;&|]|--no-preserve-root)`),
		Severity:    SeverityCritical,
		Description: "Recursive force-delete of the filesystem root",
		Risk:        "Irreversibly destroys the operating system and all data on this machine.",
		LegitimateUses: []string{
			"None on a live system",
		},
	},
	{
		Name:        "destructive_rm_home",
		Regex:       mustCompile(`(?i)\brm\b\s+(-[a-z-]+\s+)*-([a-z]*r[a-z]*f|[a-z]*f[a-z]*r)[a-z]*\s+(~/?|\$HOME/?)\s*($|[;&|])`),
		Severity:    SeverityCritical,
		Description: "Recursive force-delete of the home directory",
		Risk:        "Irreversibly deletes every file owned by this user.",
		LegitimateUses: []string{
			"Decommissioning a throwaway account",
		},
	},
	{
		Name:        "destructive_rm_star",
		Regex:       mustCompile(`(?i)\brm\b\s+(-[a-z-]+\s+)*-([a-z]*r[a-z]*f|[a-z]*f[a-z]*r)[a-z]*\s+\*`),
		Severity:    SeverityCritical,
		Description: "Recursive force-delete of everything in the current directory",
		Risk:        "Deletes the whole working tree, including uncommitted work.",
		LegitimateUses: []string{
			"Cleaning a scratch directory",
		},
	},
	{
		Name:        "destructive_mkfs_device",
		Regex:       mustCompile(`(?i)\bmkfs(\.[a-z0-9]+)?\b\s+(-[a-z0-9]+\s+)*/dev/[a-z]`),
		Severity:    SeverityCritical,
		Description: "Filesystem creation over a block device",
		Risk:        "Formats a disk, destroying everything stored on it.",
		LegitimateUses: []string{
			"Provisioning a new disk",
		},
	},
	{
		Name:        "destructive_dd_device",
		Regex:       mustCompile(`(?i)\bdd\b[^|;&]*\bof=/dev/(sd[a-z]|hd[a-z]|vd[a-z]|nvme\d+n\d+|mmcblk\d+|disk\d+)`),
		Severity:    SeverityCritical,
		Description: "dd writing directly to a disk device",
		Risk:        "Overwrites raw disk contents, destroying partitions and data.",
		LegitimateUses: []string{
			"Flashing installer images to removable media",
		},
	},
	{
		Name:        "destructive_fork_bomb",
		Regex:       mustCompile(`:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;?\s*:`),
		Severity:    SeverityCritical,
		Description: "Classic shell fork bomb",
		Risk:        "Exhausts process slots and freezes the machine until reboot.",
		LegitimateUses: []string{
			"None",
		},
	},
	{
		Name:        "destructive_chmod_777_root",
		Regex:       mustCompile(`(?i)\bchmod\b\s+(-[a-z]*r[a-z]*\s+)0?777\s+/+\s*($|[;&|])`),
		Severity:    SeverityCritical,
		Description: "Recursive world-writable permissions on /",
		Risk:        "Makes every system file writable by any process, breaking all OS security.",
		LegitimateUses: []string{
			"None on a live system",
		},
	},
	{
		Name:        "destructive_chown_root",
		Regex:       mustCompile(`(?i)\bchown\b\s+-[a-z]*r[a-z]*\s+\S+\s+/+\s*($|[;&|])`),
		Severity:    SeverityCritical,
		Description: "Recursive ownership change of /",
		Risk:        "Reassigns ownership of the whole filesystem, breaking system services.",
		LegitimateUses: []string{
			"None on a live system",
		},
	},
}

// ---------------------------------------------------------------------------
// Self-protection
//
// These patterns anchor to command position (start of command or right
// after ; & |) so that quoted or echoed mentions of the guard do not fire.
// ---------------------------------------------------------------------------

var selfProtectionPatterns = []Pattern{
	{
		Name:        "self_protect_uninstall",
		Regex:       mustCompile(`(?i)(^|[;&|]\s*)\s*hookguard\s+uninstall\b`),
		Severity:    SeverityCritical,
		Description: "Attempt to uninstall the guard",
		Risk:        "Removes the safety hook so later commands run without review.",
		LegitimateUses: []string{
			"Deliberate removal by the operator",
		},
	},
	{
		Name:        "self_protect_delete_files",
		Regex:       mustCompile(`(?i)(^|[;&|]\s*)\s*rm\b[^;&|]*\.hookguard\b`),
		Severity:    SeverityCritical,
		Description: "Deletion of the guard's own files",
		Risk:        "Destroys the guard's configuration and audit trail.",
		LegitimateUses: []string{
			"Deliberate removal by the operator",
		},
	},
	{
		Name:        "self_protect_kill_process",
		Regex:       mustCompile(`(?i)(^|[;&|]\s*)\s*(pkill|killall)\b[^;&|]*hookguard\b`),
		Severity:    SeverityCritical,
		Description: "Kill signal aimed at the guard process",
		Risk:        "Stops the guard so later commands run without review.",
		LegitimateUses: []string{
			"Recovering from a wedged guard process",
		},
	},
	{
		Name:        "self_protect_settings_overwrite",
		Regex:       mustCompile(`(?i)(^|[;&|]\s*)\s*(rm|mv|cp|sed|tee|truncate)\b[^;&|]*\.claude/settings\.json`),
		Severity:    SeverityCritical,
		Description: "Direct modification of the agent settings file",
		Risk:        "Rewrites hook registration, silently disabling the guard.",
		LegitimateUses: []string{
			"Manual settings maintenance by the operator",
		},
	},
	{
		Name:        "self_protect_settings_redirect",
		Regex:       mustCompile(`(?i)>\s*["']?[^ "']*\.claude/settings\.json`),
		Severity:    SeverityCritical,
		Description: "Shell redirection into the agent settings file",
		Risk:        "Overwrites hook registration, silently disabling the guard.",
		LegitimateUses: []string{
			"Manual settings maintenance by the operator",
		},
	},
}
