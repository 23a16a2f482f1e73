// Package psrad makes the PSRAD radiative-transfer data and shared library
// reachable from a run directory for the duration of a unit of work.
//
// PSRAD expects ECHAM6_CldOptProps.nc, rrtmg_lw.nc, rrtmg_sw.nc and
// libpsrad.so.1 in the current working directory. A Symlinks value links each
// missing file from the directory named by PSRAD_PATH, remembers which links
// it created, and removes exactly those links again on Release. Files that
// were already present are never touched.
//
// The usual entry points are Do, which runs a function inside the scope, and
// Wrap, which returns a function with the scope built in:
//
//	run := psrad.Wrap(psrad.EnvSettings{}, model.Step)
//	state, err := run(state)
package psrad
