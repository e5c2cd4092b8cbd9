// zenget downloads Zenodo dataset records with resume and retry support.
package main

import "zenget/cmd"

func main() {
	cmd.Execute()
}
