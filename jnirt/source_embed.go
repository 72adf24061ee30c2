package jnirt

import "embed"

// JavaSources embeds the host-side support classes generated wrappers
// extend. They belong to the io.github.rubiojr.jnigen package.
//
//go:embed java/*.java
var JavaSources embed.FS

// JavaPackage is the host package of the support classes.
const JavaPackage = "io.github.rubiojr.jnigen"
