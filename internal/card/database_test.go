package card

import (
	"errors"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("InsertCard", func() {
		var (
			details Details
			id      uint64
			err     error
		)

		BeforeEach(func() {
			details = Details{
				CompanyName:  "Acme Corp",
				Name:         "John Doe",
				Designation:  "Manager",
				MobileNumber: "555-1234",
				EmailAddress: "john@x.com",
				WebsiteURL:   "www.x.com",
				Area:         "123 Main St ",
				City:         "Springfield",
			}
		})

		JustBeforeEach(func() {
			id, err = db.InsertCard(details, []byte("image bytes"))
		})

		When("the details fit their columns", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should assign the first ID", func() {
				Expect(id).To(Equal(uint64(1)))
			})

			It("should store the details and image", func() {
				card, found, getErr := db.GetCard(id)
				Expect(getErr).NotTo(HaveOccurred())
				Expect(found).To(BeTrue())
				Expect(card.ID).To(Equal(id))
				Expect(card.Details).To(Equal(details))
				Expect(card.ImageData).To(Equal([]byte("image bytes")))
			})

			It("should assign increasing IDs", func() {
				next, insertErr := db.InsertCard(Details{Name: "Jane"}, nil)
				Expect(insertErr).NotTo(HaveOccurred())
				Expect(next).To(BeNumerically(">", id))
			})
		})

		When("a value is too long for its column", func() {
			BeforeEach(func() {
				details.MobileNumber = "555-1234 & 555-5678"
			})

			It("should return a persistence error", func() {
				Expect(errors.Is(err, ErrPersistence)).To(BeTrue())
				Expect(errors.Is(err, ErrColumnTooLong)).To(BeTrue())
			})

			It("should not store anything", func() {
				cards, listErr := db.ListCards()
				Expect(listErr).NotTo(HaveOccurred())
				Expect(cards).To(BeEmpty())
			})
		})
	})

	Describe("GetCard", func() {
		When("the card does not exist", func() {
			It("should report it as absent", func() {
				card, found, err := db.GetCard(42)
				Expect(err).NotTo(HaveOccurred())
				Expect(found).To(BeFalse())
				Expect(card).To(BeNil())
			})
		})
	})

	Describe("ListCards", func() {
		When("cards exist", func() {
			BeforeEach(func() {
				for _, name := range []string{"First", "Second", "Third"} {
					_, err := db.InsertCard(Details{Name: name}, []byte(name))
					Expect(err).NotTo(HaveOccurred())
				}
			})

			It("should return them in ID order", func() {
				cards, err := db.ListCards()
				Expect(err).NotTo(HaveOccurred())
				Expect(cards).To(HaveLen(3))
				Expect(cards[0].Name).To(Equal("First"))
				Expect(cards[1].Name).To(Equal("Second"))
				Expect(cards[2].Name).To(Equal("Third"))
				Expect(cards[2].ImageData).To(Equal([]byte("Third")))
			})
		})

		When("no cards exist", func() {
			It("should return an empty list", func() {
				cards, err := db.ListCards()
				Expect(err).NotTo(HaveOccurred())
				Expect(cards).NotTo(BeNil())
				Expect(cards).To(BeEmpty())
			})
		})
	})

	Describe("UpdateCard", func() {
		var id uint64

		BeforeEach(func() {
			var err error
			id, err = db.InsertCard(Details{Name: "Old", City: "Erode"}, []byte("image"))
			Expect(err).NotTo(HaveOccurred())
		})

		When("the card exists", func() {
			It("should replace every column and keep the image", func() {
				Expect(db.UpdateCard(id, Details{Name: "New"})).To(Succeed())
				card, found, err := db.GetCard(id)
				Expect(err).NotTo(HaveOccurred())
				Expect(found).To(BeTrue())
				Expect(card.Name).To(Equal("New"))
				Expect(card.City).To(BeEmpty())
				Expect(card.ImageData).To(Equal([]byte("image")))
			})
		})

		When("the card does not exist", func() {
			It("should return a not found error", func() {
				err := db.UpdateCard(id+10, Details{Name: "New"})
				Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
				Expect(errors.Is(err, ErrPersistence)).To(BeFalse())
			})
		})

		When("a value is too long for its column", func() {
			It("should leave the card unchanged", func() {
				err := db.UpdateCard(id, Details{PinCode: strings.Repeat("6", 11)})
				Expect(errors.Is(err, ErrColumnTooLong)).To(BeTrue())
				card, _, getErr := db.GetCard(id)
				Expect(getErr).NotTo(HaveOccurred())
				Expect(card.Name).To(Equal("Old"))
			})
		})
	})

	Describe("DeleteCard", func() {
		It("should remove the card and its image", func() {
			id, err := db.InsertCard(Details{Name: "Gone"}, []byte("image"))
			Expect(err).NotTo(HaveOccurred())
			Expect(db.DeleteCard(id)).To(Succeed())
			_, found, err := db.GetCard(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())
		})

		It("should succeed twice for the same ID", func() {
			id, err := db.InsertCard(Details{Name: "Gone"}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(db.DeleteCard(id)).To(Succeed())
			Expect(db.DeleteCard(id)).To(Succeed())
		})
	})

	Describe("reopening", func() {
		It("should keep cards and continue the ID sequence", func() {
			first, err := db.InsertCard(Details{Name: "Kept"}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(db.Close()).To(Succeed())

			db, err = NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())
			card, found, err := db.GetCard(first)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(card.Name).To(Equal("Kept"))

			second, err := db.InsertCard(Details{Name: "Next"}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first + 1))
		})
	})
})
