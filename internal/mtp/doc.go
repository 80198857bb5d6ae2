// Package mtp pulls new media off phones mounted through gvfs. Mount
// discovery scans the per-user gvfs directory; copying walks the device's
// media folder and pulls every file that was not copied before, keeping a
// persistent record so repeated runs never duplicate work even after the
// pulled files were renamed or deleted locally.
package mtp
