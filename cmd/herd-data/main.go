// Command herd-data imports farm workbooks into the herd database, analyzes
// unknown workbooks and exports an owner's herd back to xlsx.
package main

func main() {
	Execute()
}
