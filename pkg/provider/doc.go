// Package provider runs view binding declarations at application boot. Hosts
// list their declarations explicitly, either as Go functions or loaded from
// manifest files, and call Boot once the view registry is available.
package provider
