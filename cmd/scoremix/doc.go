// Command scoremix renders a soundtrack from a TOML job manifest.
//
//	scoremix compose job.toml --out soundtrack.wav
//	scoremix compose job.toml --simulate        # no network; remote tracks use fallbacks
//	scoremix effects                            # list the effect vocabulary
//	scoremix effects "fade in" echo reverse     # show the stage plan
//	scoremix fallbacks                          # list fallback beds and digests
//	scoremix config show                        # print the effective configuration
//
// Configuration comes from --config (TOML) and SCOREMIX_* environment
// variables; see package factory.
package main
