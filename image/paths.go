package image

// Platform describes the host build a library search runs against. The
// host ships several binary layouts: 32/64-bit, client and dedicated
// server, each with its own library directory scheme.
type Platform struct {
	// OS is "windows", "linux" or "darwin".
	OS string
	// Arch64 selects the 64-bit branch layout.
	Arch64 bool
	// Server prioritizes the dedicated-server (_srv) library names where
	// the platform distinguishes them.
	Server bool
	// GameDir is the host's mod directory name, e.g. "garrysmod".
	GameDir string
}

// HostLibraryCandidates returns the ordered list of relative paths the
// host may have loaded the named library from, most specific first. The
// working directory of the host process is the engine root, so all paths
// are relative.
func HostLibraryCandidates(name string, plat Platform) []string {
	game := plat.GameDir
	if game == "" {
		game = "garrysmod"
	}

	switch plat.OS {
	case "windows":
		if plat.Arch64 {
			return []string{
				"bin/win64/" + name + ".dll",
				name,
			}
		}
		return []string{
			"bin/" + name + ".dll",
			game + "/bin/" + name + ".dll",
			name,
		}

	case "linux":
		if plat.Arch64 {
			return []string{
				"bin/linux64/" + name + ".so",
				"bin/linux64/lib" + name + ".so",
				name,
			}
		}
		srv := []string{
			"bin/" + name + "_srv.so",
			"bin/lib" + name + "_srv.so",
			game + "/bin/" + name + "_srv.so",
			game + "/bin/lib" + name + "_srv.so",
		}
		plain := []string{
			"bin/" + name + ".so",
			"bin/lib" + name + ".so",
			game + "/bin/" + name + ".so",
			game + "/bin/lib" + name + ".so",
		}
		out := []string{
			"bin/linux32/" + name + ".so",
			"bin/linux32/lib" + name + ".so",
		}
		if plat.Server {
			out = append(out, srv...)
			out = append(out, plain...)
		} else {
			out = append(out, plain...)
			out = append(out, srv...)
		}
		return append(out, name)

	case "darwin":
		bundle := []string{
			"GarrysMod_Signed.app/Contents/MacOS/" + name + ".dylib",
			"GarrysMod_Signed.app/Contents/MacOS/lib" + name + ".dylib",
		}
		srv := []string{
			"bin/" + name + "_srv.dylib",
			"bin/lib" + name + "_srv.dylib",
			game + "/bin/" + name + "_srv.dylib",
			game + "/bin/lib" + name + "_srv.dylib",
		}
		plain := []string{
			"bin/" + name + ".dylib",
			"bin/lib" + name + ".dylib",
			game + "/bin/" + name + ".dylib",
			game + "/bin/lib" + name + ".dylib",
		}
		out := bundle
		if plat.Server {
			out = append(out, srv...)
			out = append(out, plain...)
		} else {
			out = append(out, plain...)
			out = append(out, srv...)
		}
		return append(out, name)
	}

	return []string{name}
}
